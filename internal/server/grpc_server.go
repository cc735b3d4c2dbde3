package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/matchmaker/internal/config"
)

// GRPCServer exposes the standard health service next to the HTTP API.
type GRPCServer struct {
	Server *grpc.Server
	Health *health.Server
	addr   string
}

// NewGRPCServer builds a gRPC server and registers all provided services.
// The overall health status starts as SERVING.
func NewGRPCServer(cfg *config.Config, registrars ...GRPCRegistrar) *GRPCServer {
	grpcServer := grpc.NewServer()

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	for _, r := range registrars {
		r.Register(grpcServer)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &GRPCServer{
		Server: grpcServer,
		Health: hs,
		addr:   fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port),
	}
}

// Addr is the configured listen address.
func (s *GRPCServer) Addr() string { return s.addr }

// Start listens on the configured address and blocks until Stop.
func (s *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Serve runs on an existing listener.
func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.Server.Serve(lis)
}

// Stop flips health to NOT_SERVING and drains in-flight calls.
func (s *GRPCServer) Stop() {
	s.Health.Shutdown()
	s.Server.GracefulStop()
}
