// Package identity implements the login flow: the credential store, the
// password, OTP and open strategies, and nonce issuance.
package identity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/cryptox"
	"github.com/dmitrijs2005/easyadmin/internal/logging"
	"github.com/dmitrijs2005/easyadmin/internal/server/audit"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
	"github.com/dmitrijs2005/easyadmin/internal/server/metrics"
	"github.com/dmitrijs2005/easyadmin/internal/server/nonces"
	"github.com/dmitrijs2005/easyadmin/internal/server/otp"
)

// VerifyFunc checks a password proof against the account secret and nonce.
type VerifyFunc func(ctx context.Context, proof, secret, nonce string) (bool, error)

// Service is the login orchestrator. It owns no state of its own: accounts,
// nonces and the OTP live in the collaborators passed to NewService.
type Service struct {
	store   *Store
	nonces  nonces.Registry
	otp     *otp.State
	issuer  *auth.Issuer
	verify  VerifyFunc
	audit   audit.Sink
	metrics *metrics.Metrics
	log     logging.Logger
}

type Option func(*Service)

// WithAudit sends login, nonce and rotation events to sink.
func WithAudit(sink audit.Sink) Option {
	return func(s *Service) { s.audit = sink }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithVerifier replaces cryptox.VerifyPassword.
func WithVerifier(fn VerifyFunc) Option {
	return func(s *Service) { s.verify = fn }
}

func NewService(store *Store, registry nonces.Registry, otpState *otp.State, issuer *auth.Issuer, log logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		nonces: registry,
		otp:    otpState,
		issuer: issuer,
		verify: cryptox.VerifyPassword,
		audit:  audit.NoOpSink{},
		log:    log.With("module", "identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure loads modes and accounts and, when OTP login is enabled, sets
// the first code.
func (s *Service) Configure(ctx context.Context, enabledModes, accounts []string) error {
	s.store.Configure(ctx, enabledModes, accounts)
	if !s.store.Modes().OTP {
		return nil
	}
	if _, err := s.rotate(ctx); err != nil {
		return fmt.Errorf("initial otp: %w", err)
	}
	return nil
}

// Modes reports the enabled strategies.
func (s *Service) Modes() Modes {
	return s.store.Modes()
}

// IssueNonce hands out a fresh nonce for clientID, invalidating the previous one.
func (s *Service) IssueNonce(ctx context.Context, clientID string) (string, error) {
	if clientID == "" {
		return "", reject(common.ErrMissingField, MsgMissingClientID)
	}

	nonce, err := s.nonces.Issue(ctx, clientID)
	if err != nil {
		s.log.Error(ctx, "nonce issue failed", "error", err)
		return "", fmt.Errorf("issue nonce: %w", err)
	}

	s.metrics.RecordNonce()
	s.audit.Emit(ctx, audit.Event{
		Type:     audit.EventNonceIssued,
		Audience: auth.Audience(clientID),
		Success:  true,
	})
	return nonce, nil
}

// RotateOTP discards the current code. It is rejected while OTP login is off.
func (s *Service) RotateOTP(ctx context.Context) error {
	if !s.store.Modes().OTP {
		return modeDisabled(MethodOTP)
	}
	_, err := s.rotate(ctx)
	return err
}

func (s *Service) rotate(ctx context.Context) (int64, error) {
	code, err := s.otp.Regenerate()
	if err != nil {
		s.log.Error(ctx, "otp regeneration failed", "error", err)
		return 0, fmt.Errorf("regenerate otp: %w", err)
	}
	s.rotated(ctx)
	return code, nil
}

func (s *Service) rotated(ctx context.Context) {
	s.metrics.RecordOTPRotation()
	s.audit.Emit(ctx, audit.Event{Type: audit.EventOTPRotated, Success: true})
	// mock service: the operator reads the code from the log
	s.log.Info(ctx, "current otp code", "code", strconv.FormatInt(s.otp.Current(), 10))
}

// Login authenticates req for a token bound to host. Rejections are *Error
// values wrapping a common.Err* kind; any other error is internal.
func (s *Service) Login(ctx context.Context, host string, req LoginRequest) (string, error) {
	token, username, err := s.login(ctx, host, req)

	method := MethodOf(req)
	event := audit.Event{
		Type:     audit.EventLogin,
		Method:   method,
		Host:     host,
		Username: username,
		Success:  err == nil,
	}
	if req != nil && req.clientID() != "" {
		event.Audience = auth.Audience(req.clientID())
	}

	switch rej, ok := AsError(err); {
	case err == nil:
		s.metrics.RecordLogin(method, metrics.OutcomeSuccess)
	case ok:
		s.metrics.RecordLogin(method, metrics.OutcomeRejected)
		event.Error = rej.Message
		s.log.Debug(ctx, "login rejected", "method", method, "reason", rej.Message)
	default:
		s.metrics.RecordLogin(method, metrics.OutcomeError)
		event.Error = common.ErrorInternal.Error()
		s.log.Error(ctx, "login failed", "method", method, "error", err)
	}
	s.audit.Emit(ctx, event)

	return token, err
}

func (s *Service) login(ctx context.Context, host string, req LoginRequest) (token, username string, err error) {
	if host == "" {
		return "", "", reject(common.ErrMissingHost, MsgMissingHost)
	}

	modes := s.store.Modes()

	switch r := req.(type) {
	case PasswordLogin:
		if !modes.Password {
			return "", "", modeDisabled(MethodPassword)
		}
		if r.ClientID == "" || r.Username == "" || r.Password == "" || r.Nonce == "" {
			return "", "", reject(common.ErrMissingField, MsgMissingFields)
		}
		if err := s.checkPassword(ctx, r); err != nil {
			return "", r.Username, err
		}
		token, err := s.issue(r.ClientID, host, r.Username)
		return token, r.Username, err

	case OTPLogin:
		if !modes.OTP {
			return "", "", modeDisabled(MethodOTP)
		}
		if r.ClientID == "" || r.OTP == "" {
			return "", "", reject(common.ErrMissingField, MsgMissingFields)
		}
		ok, err := s.otp.Consume(r.OTP)
		if err != nil {
			return "", "", fmt.Errorf("rotate otp: %w", err)
		}
		if !ok {
			return "", "", reject(common.ErrInvalidCredential, MsgInvalidOTP)
		}
		s.rotated(ctx)
		token, err := s.issue(r.ClientID, host, "")
		return token, "", err

	case OpenLogin:
		if !modes.Open {
			return "", "", modeDisabled(MethodOpen)
		}
		if r.ClientID == "" {
			return "", "", reject(common.ErrMissingField, MsgMissingFields)
		}
		token, err := s.issue(r.ClientID, host, "")
		return token, "", err

	default:
		return "", "", reject(common.ErrUnsupportedMethod, MsgUnsupportedMethod)
	}
}

func (s *Service) checkPassword(ctx context.Context, r PasswordLogin) error {
	ok, err := s.nonces.Consume(ctx, r.ClientID, r.Nonce)
	if err != nil {
		return fmt.Errorf("consume nonce: %w", err)
	}
	if !ok {
		return reject(common.ErrInvalidNonce, MsgInvalidNonce)
	}

	secret, found := s.store.Lookup(r.Username)

	// unknown users pay for the KDF too
	ok, err = s.verify(ctx, r.Password, secret, r.Nonce)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !found || !ok {
		return reject(common.ErrInvalidCredential, MsgInvalidPassword)
	}
	return nil
}

func (s *Service) issue(clientID, host, username string) (string, error) {
	token, err := s.issuer.Issue(clientID, host, username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
