package handler

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/scheduler"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const RunJobMethod = "/chezflora.jobs.v1.JobService/RunJob"

// JobServiceServer takes the job name and answers with its batch counters.
type JobServiceServer interface {
	RunJob(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

var JobServiceDesc = grpc.ServiceDesc{
	ServiceName: "chezflora.jobs.v1.JobService",
	HandlerType: (*JobServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunJob", Handler: runJobHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chezflora/jobs/v1/jobs.proto",
}

func RegisterJobServiceServer(s grpc.ServiceRegistrar, srv JobServiceServer) {
	s.RegisterService(&JobServiceDesc, srv)
}

func runJobHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(JobServiceServer).RunJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RunJobMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(JobServiceServer).RunJob(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type JobHandler struct {
	scheduler *scheduler.Scheduler
	logger    logger.ZapLogger
}

func NewJobHandler(s *scheduler.Scheduler, log logger.ZapLogger) *JobHandler {
	return &JobHandler{scheduler: s, logger: log}
}

func (h *JobHandler) RunJob(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	user, ok := auth.GetUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}
	if !user.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "only admins can run jobs")
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "job name is required")
	}

	res, err := h.scheduler.RunOnce(ctx, req.GetValue())
	if err != nil {
		h.logger.Error("failed to run job", zap.String("job", req.GetValue()), zap.Error(err))
		return nil, status.Error(apperror.GRPCCode(apperror.KindOf(err)), apperror.Message(err))
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"job":       req.GetValue(),
		"processed": res.Processed,
		"succeeded": res.Succeeded,
		"skipped":   res.Skipped,
		"failed":    res.Failed,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
