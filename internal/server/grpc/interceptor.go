package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/easyadmin/internal/proto"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// authorizationMetadataKey is common.AuthorizationHeaderName as gRPC
// metadata keys are lowercase.
const authorizationMetadataKey = "authorization"

// protectedMethods require a session token.
var protectedMethods = map[string]bool{
	pb.MethodMe: true,
}

// ClaimsFromContext returns the claims attached by the token interceptor.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		accessToken := auth.BearerToken(firstMetadata(ctx, authorizationMetadataKey))
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "No authorization token provided")
		}

		claims, err := s.issuer.Parse(accessToken)
		if err != nil {
			s.logger.Debug(ctx, "token rejected", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, "JWT is not valid")
		}

		ctx = context.WithValue(ctx, claimsKey, claims)

	}

	return handler(ctx, req)
}
