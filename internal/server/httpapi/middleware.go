package httpapi

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
)

const (
	msgNoToken    = "No authorization token provided"
	msgBadToken   = "JWT is not valid"
	msgCORSDenied = "Not allowed by CORS"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the token claims attached by RequireToken.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// RequireToken rejects requests without a valid session token and attaches
// the claims to the request context. The token host is not compared with
// the request host.
func (s *Server) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			s.metrics.RecordGateRejection("missing")
			writeError(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		claims, err := s.issuer.Parse(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, common.ErrTokenExpired) {
				reason = "expired"
			}
			s.metrics.RecordGateRejection(reason)
			s.logger.Debug(r.Context(), "token rejected", "reason", reason)
			writeError(w, http.StatusUnauthorized, msgBadToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.opts.AllowedOrigins, "*") || slices.Contains(s.opts.AllowedOrigins, origin)
}

// cors lets requests without an Origin through, answers preflights from
// allowed origins and refuses every other cross-origin request.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !s.originAllowed(origin) {
			writeError(w, http.StatusForbidden, msgCORSDenied)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Forwarded-Host")
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
