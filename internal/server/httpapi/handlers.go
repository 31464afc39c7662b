package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/server/identity"
)

type infoResponse struct {
	API     string `json:"api"`
	Version string `json:"version"`
	Help    string `json:"help"`
}

type nonceRequest struct {
	ClientID string `json:"clientId"`
}

type nonceResponse struct {
	Nonce string `json:"nonce"`
}

type loginRequest struct {
	Method   string     `json:"method"`
	ClientID string     `json:"clientId"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Nonce    string     `json:"nonce"`
	OTP      codeString `json:"otp"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{API: apiName, Version: s.opts.APIVersion, Help: s.opts.HelpURL})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (s *Server) handleNonce(w http.ResponseWriter, r *http.Request) {
	var req nonceRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ClientID == "" {
		writeError(w, http.StatusBadRequest, identity.MsgMissingClientID)
		return
	}

	nonce, err := s.identity.IssueNonce(r.Context(), req.ClientID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonceResponse{Nonce: nonce})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body *loginRequest
	if err := decodeJSON(w, r, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Missing login body")
		return
	}

	req := identity.DecodeLogin(identity.LoginFields{
		Method:   body.Method,
		ClientID: body.ClientID,
		Username: body.Username,
		Password: body.Password,
		Nonce:    body.Nonce,
		OTP:      string(body.OTP),
	})

	token, err := s.identity.Login(r.Context(), requestHost(r), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNoToken)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (s *Server) handleRotateOTP(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.RotateOTP(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps rejections to 400, or 401 for a credential
// mismatch, and everything else to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := identity.AsError(err); ok {
		status := http.StatusBadRequest
		if errors.Is(rej, common.ErrInvalidCredential) {
			status = http.StatusUnauthorized
		}
		writeError(w, status, rej.Message)
		return
	}
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}
