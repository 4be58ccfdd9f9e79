package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	s := scheduler.New(scheduler.NewLocalLocker(), time.Minute, logger.NewNop())
	s.Register(scheduler.Job{Name: scheduler.JobQuoteExpiry, Run: func(ctx context.Context) (model.BatchResult, error) {
		return model.BatchResult{Processed: 2, Succeeded: 1, Skipped: 1}, nil
	}})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterJobServiceServer(srv, NewJobHandler(s, logger.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func asUser(role model.Role) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-user-id", "u-1", "x-user-role", string(role))
}

func TestRunJob(t *testing.T) {
	conn := dial(t)

	out := new(structpb.Struct)
	err := conn.Invoke(asUser(model.RoleAdmin), RunJobMethod, wrapperspb.String(scheduler.JobQuoteExpiry), out)
	require.NoError(t, err)
	assert.Equal(t, float64(2), out.Fields["processed"].GetNumberValue())
	assert.Equal(t, float64(1), out.Fields["skipped"].GetNumberValue())
	assert.Equal(t, scheduler.JobQuoteExpiry, out.Fields["job"].GetStringValue())
}

func TestRunJobRejections(t *testing.T) {
	conn := dial(t)

	err := conn.Invoke(asUser(model.RoleClient), RunJobMethod, wrapperspb.String(scheduler.JobQuoteExpiry), new(structpb.Struct))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	err = conn.Invoke(context.Background(), RunJobMethod, wrapperspb.String(scheduler.JobQuoteExpiry), new(structpb.Struct))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = conn.Invoke(asUser(model.RoleAdmin), RunJobMethod, wrapperspb.String("backup"), new(structpb.Struct))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
