package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/easyadmin/internal/logging"
)

// Login method names as they appear on the wire and in AUTH_MODES_SUPPORTED.
const (
	MethodPassword = "password"
	MethodOTP      = "otp"
	MethodOpen     = "open"
)

// Modes are the enabled login strategies.
type Modes struct {
	Password bool
	OTP      bool
	Open     bool
}

// Store holds the password accounts and enabled modes. It is filled once at
// startup; Configure may be called again and fully replaces the state.
type Store struct {
	mu       sync.RWMutex
	modes    Modes
	accounts map[string]string
	log      logging.Logger
}

func NewStore(log logging.Logger) *Store {
	return &Store{
		accounts: make(map[string]string),
		log:      log.With("module", "accounts"),
	}
}

// Configure parses enabledModes and the "user:pass" account entries.
// Malformed accounts and unknown modes are logged and skipped.
func (s *Store) Configure(ctx context.Context, enabledModes []string, accounts []string) {
	var modes Modes
	for _, m := range enabledModes {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case MethodPassword:
			modes.Password = true
		case MethodOTP:
			modes.OTP = true
		case MethodOpen:
			modes.Open = true
		case "":
		default:
			s.log.Warn(ctx, "unknown authentication mode ignored", "mode", m)
		}
	}

	table := make(map[string]string, len(accounts))
	for i, entry := range accounts {
		user, secret, ok := parseAccount(entry)
		if !ok {
			// the entry may contain a secret, log its position only
			s.log.Warn(ctx, "malformed account entry skipped", "index", i)
			continue
		}
		table[user] = secret
	}

	s.mu.Lock()
	s.modes = modes
	s.accounts = table
	s.mu.Unlock()

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	s.log.Info(ctx, "credential store configured",
		"password", modes.Password, "otp", modes.OTP, "open", modes.Open, "accounts", names)
}

// Lookup returns the secret configured for username.
func (s *Store) Lookup(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.accounts[username]
	return secret, ok
}

func (s *Store) Modes() Modes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes
}

// parseAccount splits entry on the first colon not preceded by a backslash.
// "\:" in the username stands for a literal colon.
func parseAccount(entry string) (user, secret string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(entry); i++ {
		c := entry[i]
		if c == '\\' && i+1 < len(entry) && entry[i+1] == ':' {
			b.WriteByte(':')
			i++
			continue
		}
		if c == ':' {
			user = b.String()
			if user == "" {
				return "", "", false
			}
			return user, entry[i+1:], true
		}
		b.WriteByte(c)
	}
	return "", "", false
}
