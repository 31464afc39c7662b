// Package proto describes the easyadmin.identity.v1.Identity gRPC service.
// Messages are google.protobuf.Struct values with the same field names as the
// HTTP JSON bodies, so no generated code is needed.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "easyadmin.identity.v1.Identity"

// Full method names.
const (
	MethodNonce = "/" + ServiceName + "/Nonce"
	MethodLogin = "/" + ServiceName + "/Login"
	MethodMe    = "/" + ServiceName + "/Me"
)

// IdentityServer mirrors the HTTP identity routes.
type IdentityServer interface {
	Nonce(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(fullMethod string, call func(IdentityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var identityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Nonce", Handler: unaryHandler(MethodNonce, IdentityServer.Nonce)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, IdentityServer.Login)},
		{MethodName: "Me", Handler: unaryHandler(MethodMe, IdentityServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "easyadmin/identity/v1/identity.proto",
}

// RegisterIdentityServer registers srv on s.
func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&identityServiceDesc, srv)
}

// IdentityClient calls the identity service over a client connection.
type IdentityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) *IdentityClient {
	return &IdentityClient{cc: cc}
}

func (c *IdentityClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityClient) Nonce(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodNonce, in, opts...)
}

func (c *IdentityClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogin, in, opts...)
}

func (c *IdentityClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodMe, in, opts...)
}
