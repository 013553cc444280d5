package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
)

// Server exposes the standard gRPC health service so orchestration probes
// can check the process and its database connectivity on the gRPC port.
type Server struct {
	db     db.DB
	logger *zap.Logger
	health *health.Server
	grpc   *grpc.Server
}

func NewServer(database db.DB, logger *zap.Logger) *Server {
	healthSrv := health.NewServer()
	grpcSrv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	return &Server{
		db:     database,
		logger: logger,
		health: healthSrv,
		grpc:   grpcSrv,
	}
}

// Run serves until the context is cancelled. The health status is refreshed
// from a periodic database probe.
func (s *Server) Run(ctx context.Context, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	go s.probeLoop(ctx)

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}()

	s.logger.Info("grpc server starting", zap.String("port", port))
	return s.grpc.Serve(lis)
}

func (s *Server) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	s.probe(ctx)
	for {
		select {
		case <-ticker.C:
			s.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	var one int
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := s.db.Get(ctx, &one, "SELECT 1"); err != nil {
		s.logger.Warn("health probe failed", zap.Error(err))
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}
