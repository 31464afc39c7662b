package netx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoJSON(t *testing.T) {
	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody, gotCT, gotMethod, gotAuth string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			_, _ = w.Write([]byte(`{"nonce":"abc"}`))
		}))
		defer ts.Close()

		var out struct {
			Nonce string `json:"nonce"`
		}
		err := DoJSON(context.Background(), ts.Client(), http.MethodPost, ts.URL+"/v1.0/identity/nonce",
			map[string]string{"Authorization": "Bearer t"}, map[string]string{"clientId": "c1"}, &out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPost {
			t.Fatalf("method = %q, want POST", gotMethod)
		}
		if gotCT != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", gotCT)
		}
		if gotAuth != "Bearer t" {
			t.Fatalf("Authorization = %q", gotAuth)
		}
		if gotBody != `{"clientId":"c1"}` {
			t.Fatalf("body = %q", gotBody)
		}
		if out.Nonce != "abc" {
			t.Fatalf("decoded nonce = %q", out.Nonce)
		}
	})

	t.Run("json error body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid password"}`))
		}))
		defer ts.Close()

		err := DoJSON(context.Background(), nil, http.MethodPost, ts.URL, nil, struct{}{}, nil)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if se.StatusCode != http.StatusUnauthorized || se.Message != "Invalid password" {
			t.Fatalf("unexpected status error: %+v", se)
		}
		if !strings.Contains(err.Error(), "401") {
			t.Fatalf("error = %q, want to contain 401", err.Error())
		}
	})

	t.Run("plain error body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer ts.Close()

		err := DoJSON(context.Background(), nil, http.MethodGet, ts.URL, nil, nil, nil)
		var se *StatusError
		if !errors.As(err, &se) || !strings.Contains(se.Message, "upstream down") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("no content", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		var out map[string]any
		if err := DoJSON(context.Background(), nil, http.MethodPost, ts.URL, nil, nil, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if err := DoJSON(context.Background(), nil, http.MethodGet, "http://[::1]:namedport", nil, nil, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("undecodable body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer ts.Close()

		var out map[string]any
		err := DoJSON(context.Background(), nil, http.MethodGet, ts.URL, nil, nil, &out)
		if err == nil || !strings.Contains(err.Error(), "decode response") {
			t.Fatalf("expected decode error, got %v", err)
		}
	})
}
