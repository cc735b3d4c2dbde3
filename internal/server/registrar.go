package server

import (
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all HTTP service registrars.
// Register receives the authenticated /v1 group.
type Registrar interface {
	Register(g *echo.Group)
}

// GRPCRegistrar is the gRPC counterpart of Registrar.
type GRPCRegistrar interface {
	Register(s *grpc.Server)
}
