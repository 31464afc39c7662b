package identity

// LoginRequest is one of PasswordLogin, OTPLogin, OpenLogin or UnknownLogin.
type LoginRequest interface {
	method() string
	clientID() string
}

type PasswordLogin struct {
	ClientID string
	Username string
	// Password is the client proof "salt_hex:derived_hex".
	Password string
	Nonce    string
}

type OTPLogin struct {
	ClientID string
	// OTP is the decimal form of the code.
	OTP string
}

type OpenLogin struct {
	ClientID string
}

// UnknownLogin carries a method the server does not implement.
type UnknownLogin struct {
	Method   string
	ClientID string
}

func (PasswordLogin) method() string { return MethodPassword }
func (OTPLogin) method() string      { return MethodOTP }
func (OpenLogin) method() string     { return MethodOpen }
func (UnknownLogin) method() string  { return "unknown" }

func (r PasswordLogin) clientID() string { return r.ClientID }
func (r OTPLogin) clientID() string      { return r.ClientID }
func (r OpenLogin) clientID() string     { return r.ClientID }
func (r UnknownLogin) clientID() string  { return r.ClientID }

// LoginFields is the flattened body shared by every transport.
type LoginFields struct {
	Method   string
	ClientID string
	Username string
	Password string
	Nonce    string
	OTP      string
}

// DecodeLogin picks the variant named by f.Method.
func DecodeLogin(f LoginFields) LoginRequest {
	switch f.Method {
	case MethodPassword:
		return PasswordLogin{ClientID: f.ClientID, Username: f.Username, Password: f.Password, Nonce: f.Nonce}
	case MethodOTP:
		return OTPLogin{ClientID: f.ClientID, OTP: f.OTP}
	case MethodOpen:
		return OpenLogin{ClientID: f.ClientID}
	default:
		return UnknownLogin{Method: f.Method, ClientID: f.ClientID}
	}
}

// MethodOf is the metrics label for req.
func MethodOf(req LoginRequest) string {
	if req == nil {
		return "unknown"
	}
	return req.method()
}
