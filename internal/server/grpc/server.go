package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/easyadmin/internal/logging"
	pb "github.com/dmitrijs2005/easyadmin/internal/proto"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
	"github.com/dmitrijs2005/easyadmin/internal/server/identity"
	"google.golang.org/grpc"
)

var _ pb.IdentityServer = (*GRPCServer)(nil)

type GRPCServer struct {
	address  string
	identity *identity.Service
	issuer   *auth.Issuer
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, svc *identity.Service, issuer *auth.Issuer) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		identity: svc,
		issuer:   issuer,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers service
	pb.RegisterIdentityServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
