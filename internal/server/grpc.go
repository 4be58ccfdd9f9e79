package server

import (
	"context"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	schedulerhandler "github.com/Emmanuel-365/chezflora-api/internal/scheduler/handler"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewGRPCServer exposes the health service, reflection and the admin
// JobService.
func NewGRPCServer(verifier *auth.Verifier, log logger.ZapLogger, jobs schedulerhandler.JobServiceServer) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			errorInterceptor(log),
			auth.UnaryInterceptor(verifier),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(schedulerhandler.JobServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	schedulerhandler.RegisterJobServiceServer(srv, jobs)
	reflection.Register(srv)
	return srv, hs
}

// errorInterceptor turns domain errors that escaped a handler into status
// errors and logs every call.
func errorInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			if _, ok := status.FromError(err); !ok {
				err = status.Error(apperror.GRPCCode(apperror.KindOf(err)), apperror.Message(err))
			}
		}
		log.Debug("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("took", time.Since(start)),
		)
		return resp, err
	}
}
