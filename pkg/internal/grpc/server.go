package grpc

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger reports whether a dependency the service needs is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	health.UnimplementedHealthServer

	srv    *grpc.Server
	pinger Pinger
}

func NewGrpc(pinger Pinger) *App {
	server := &App{
		srv:    grpc.NewServer(),
		pinger: pinger,
	}

	health.RegisterHealthServer(server.srv, server)
	reflection.Register(server.srv)

	return server
}

func (v *App) Check(ctx context.Context, request *health.HealthCheckRequest) (*health.HealthCheckResponse, error) {
	if err := v.pinger.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed, database is unreachable")
		return &health.HealthCheckResponse{
			Status: health.HealthCheckResponse_NOT_SERVING,
		}, nil
	}

	return &health.HealthCheckResponse{
		Status: health.HealthCheckResponse_SERVING,
	}, nil
}

func (v *App) Serve(listener net.Listener) error {
	return v.srv.Serve(listener)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.Serve(listener)
}

func (v *App) Stop() {
	v.srv.GracefulStop()
}
