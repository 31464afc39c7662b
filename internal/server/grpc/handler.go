package grpc

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/server/identity"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Nonce(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	nonce, err := s.identity.IssueNonce(ctx, stringField(req, "clientId"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"nonce": nonce})

}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	if req == nil || len(req.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "Missing login body")
	}

	login := identity.DecodeLogin(identity.LoginFields{
		Method:   stringField(req, "method"),
		ClientID: stringField(req, "clientId"),
		Username: stringField(req, "username"),
		Password: stringField(req, "password"),
		Nonce:    stringField(req, "nonce"),
		OTP:      stringField(req, "otp"),
	})

	token, err := s.identity.Login(ctx, requestHost(ctx), login)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return structpb.NewStruct(map[string]any{"token": token})

}

func (s *GRPCServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "No authorization token provided")
	}

	aud := make([]any, 0, len(claims.Audience))
	for _, a := range claims.Audience {
		aud = append(aud, a)
	}
	out := map[string]any{
		"sub":  claims.Subject,
		"aud":  aud,
		"host": claims.Host,
		"iss":  claims.Issuer,
	}
	if claims.Username != "" {
		out["username"] = claims.Username
	}
	if claims.IssuedAt != nil {
		out["iat"] = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out["exp"] = claims.ExpiresAt.Unix()
	}

	return structpb.NewStruct(out)

}

// toStatus maps rejections to InvalidArgument, or Unauthenticated for a
// credential mismatch. Anything else is logged and reported as Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if rej, ok := identity.AsError(err); ok {
		if errors.Is(rej, common.ErrInvalidCredential) {
			return status.Error(codes.Unauthenticated, rej.Message)
		}
		return status.Error(codes.InvalidArgument, rej.Message)
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "Internal error")
}

// stringField reads a string or number field. Numbers keep their integer
// text so an OTP sent as a number compares like the JSON route; codes stay
// exact because config caps OTPMax at 2^53-1.
func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

// requestHost prefers x-forwarded-host over the :authority pseudo-header.
func requestHost(ctx context.Context) string {
	if fwd := firstMetadata(ctx, strings.ToLower(common.ForwardedHostHeaderName)); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return firstMetadata(ctx, ":authority")
}
