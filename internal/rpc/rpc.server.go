// FilePath: internal/rpc/rpc.server.go
package rpc

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/itsatony/healthhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Ingester is the part of the ingestion pipeline the service calls.
type Ingester interface {
	Ingest(ctx context.Context, kind models.Kind, payload map[string]any) models.IngestResult
}

// Service implements HealthExportServiceServer on top of an Ingester.
type Service struct {
	ingester Ingester
	version  string
}

var _ HealthExportServiceServer = (*Service)(nil)

// NewService creates the gRPC service implementation.
func NewService(ingester Ingester, version string) *Service {
	return &Service{ingester: ingester, version: version}
}

func (s *Service) ExportSleep(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.export(ctx, models.KindSleep, in)
}

func (s *Service) ExportExercise(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.export(ctx, models.KindExercise, in)
}

func (s *Service) ExportGlucose(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.export(ctx, models.KindGlucose, in)
}

// HealthCheck reports that the service is up. It does not touch the store.
func (s *Service) HealthCheck(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{
		"status":    "ok",
		"message":   "gRPC Health Server Running",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *Service) export(ctx context.Context, kind models.Kind, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "payload is required")
	}
	res := s.ingester.Ingest(ctx, kind, in.AsMap())
	out, err := ResultToStruct(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// ResultToStruct encodes an ingestion result as a Struct.
func ResultToStruct(res models.IngestResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"kind":      res.Kind.String(),
		"status":    string(res.Status),
		"processed": res.Processed,
		"message":   res.Message,
		"timestamp": res.Timestamp,
		"extracted": res.Extracted,
		"skipped":   res.Skipped,
	})
}

// ResultFromStruct decodes a Struct produced by ResultToStruct.
func ResultFromStruct(s *structpb.Struct) models.IngestResult {
	fields := s.GetFields()
	return models.IngestResult{
		Kind:      models.Kind(fields["kind"].GetStringValue()),
		Status:    models.Status(fields["status"].GetStringValue()),
		Processed: int(fields["processed"].GetNumberValue()),
		Message:   fields["message"].GetStringValue(),
		Timestamp: fields["timestamp"].GetStringValue(),
		Extracted: int(fields["extracted"].GetNumberValue()),
		Skipped:   int(fields["skipped"].GetNumberValue()),
	}
}

// ServerOptions configures NewServer.
type ServerOptions struct {
	Reflection     bool
	MaxRecvMsgSize int
}

// NewServer creates a grpc.Server with the export service, the standard
// health service and optionally reflection registered.
func NewServer(svc HealthExportServiceServer, opts ServerOptions) (*grpc.Server, *health.Server) {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(recoveryInterceptor, loggingInterceptor),
	}
	if opts.MaxRecvMsgSize > 0 {
		serverOpts = append(serverOpts, grpc.MaxRecvMsgSize(opts.MaxRecvMsgSize))
	}
	grpcServer := grpc.NewServer(serverOpts...)

	RegisterHealthExportServiceServer(grpcServer, svc)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(grpcServer)
	}
	return grpcServer, healthServer
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		nuts.L.Warnf("[gRPC] %s failed after %v: %v", info.FullMethod, time.Since(start), err)
	} else {
		nuts.L.Debugf("[gRPC] %s completed in %v", info.FullMethod, time.Since(start))
	}
	return resp, err
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			nuts.L.Errorf("[gRPC] Panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
			err = status.Error(codes.Internal, fmt.Sprintf("internal error: %v", r))
		}
	}()
	return handler(ctx, req)
}
