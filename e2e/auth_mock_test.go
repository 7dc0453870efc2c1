//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"

	authpb "github.com/vibast-solutions/ms-go-auth/app/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	defaultEscrowCallerAPIKey   = "escrow-caller-key"
	defaultEscrowNoAccessAPIKey = "escrow-no-access-key"
	defaultEscrowAppAPIKey      = "escrow-app-api-key"
	escrowAuthMockAddr          = "0.0.0.0:38085"
)

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func escrowCallerAPIKey() string {
	return envOrDefault("ESCROW_CALLER_API_KEY", defaultEscrowCallerAPIKey)
}

func escrowNoAccessAPIKey() string {
	return envOrDefault("ESCROW_NO_ACCESS_API_KEY", defaultEscrowNoAccessAPIKey)
}

func escrowAppAPIKey() string {
	return envOrDefault("ESCROW_APP_API_KEY", defaultEscrowAppAPIKey)
}

type escrowAuthGRPCServer struct {
	authpb.UnimplementedAuthServiceServer
}

func (s *escrowAuthGRPCServer) ValidateInternalAccess(ctx context.Context, req *authpb.ValidateInternalAccessRequest) (*authpb.ValidateInternalAccessResponse, error) {
	if incomingAPIKey(ctx) != escrowAppAPIKey() {
		return nil, status.Error(codes.Unauthenticated, "unauthorized caller")
	}

	switch strings.TrimSpace(req.GetApiKey()) {
	case escrowCallerAPIKey():
		return &authpb.ValidateInternalAccessResponse{
			ServiceName:   "shop-gateway",
			AllowedAccess: []string{"escrow-service", "payments-service"},
		}, nil
	case escrowNoAccessAPIKey():
		return &authpb.ValidateInternalAccessResponse{
			ServiceName:   "shop-gateway",
			AllowedAccess: []string{"payments-service"},
		}, nil
	default:
		return nil, status.Error(codes.Unauthenticated, "invalid api key")
	}
}

func incomingAPIKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("x-api-key")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func TestMain(m *testing.M) {
	for key, value := range map[string]string{
		"ESCROW_CALLER_API_KEY":    defaultEscrowCallerAPIKey,
		"ESCROW_NO_ACCESS_API_KEY": defaultEscrowNoAccessAPIKey,
		"ESCROW_APP_API_KEY":       defaultEscrowAppAPIKey,
	} {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}

	listener, err := net.Listen("tcp", escrowAuthMockAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start escrow auth grpc mock: %v\n", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterAuthServiceServer(grpcServer, &escrowAuthGRPCServer{})

	go func() {
		_ = grpcServer.Serve(listener)
	}()

	exitCode := m.Run()

	grpcServer.GracefulStop()
	_ = listener.Close()

	os.Exit(exitCode)
}
