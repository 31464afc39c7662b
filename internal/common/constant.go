package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests and,
	// lowercased, in gRPC metadata.
	AuthorizationHeaderName = "Authorization"

	// ForwardedHostHeaderName is consulted before the request host when the
	// token host binding is resolved.
	ForwardedHostHeaderName = "X-Forwarded-Host"

	// TokenIssuer is the fixed iss claim of every session token.
	TokenIssuer = "EasyAdmin"
)
