package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	pb "github.com/dmitrijs2005/easyadmin/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	conn   *grpc.ClientConn
	client *pb.IdentityClient
}

// NewGRPCClient prepares a plaintext connection to addr. Dialing is lazy.
func NewGRPCClient(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, client: pb.NewIdentityClient(conn)}, nil
}

func (c *GRPCClient) Nonce(ctx context.Context, clientID string) (string, error) {
	in, err := structpb.NewStruct(map[string]any{"clientId": clientID})
	if err != nil {
		return "", err
	}
	resp, err := c.client.Nonce(ctx, in)
	if err != nil {
		return "", mapStatusError(err)
	}
	return resp.GetFields()["nonce"].GetStringValue(), nil
}

func (c *GRPCClient) Login(ctx context.Context, req LoginRequest) (string, error) {
	fields := map[string]any{"method": req.Method, "clientId": req.ClientID}
	for k, v := range map[string]string{
		"username": req.Username,
		"password": req.Password,
		"nonce":    req.Nonce,
		"otp":      req.OTP,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Login(ctx, in)
	if err != nil {
		return "", mapStatusError(err)
	}
	return resp.GetFields()["token"].GetStringValue(), nil
}

func (c *GRPCClient) Me(ctx context.Context, token string) (map[string]any, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, strings.ToLower(common.AuthorizationHeaderName), "Bearer "+token)
	resp, err := c.client.Me(ctx, &structpb.Struct{})
	if err != nil {
		return nil, mapStatusError(err)
	}
	return resp.AsMap(), nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapStatusError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return &RejectedError{Message: st.Message()}
	case codes.Unauthenticated:
		return &RejectedError{Message: st.Message(), Unauthorized: true}
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	}
}
