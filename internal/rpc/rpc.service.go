// FilePath: internal/rpc/rpc.service.go
// Package rpc serves the ingestion pipeline over gRPC. Requests and responses
// are google.protobuf.Struct values carrying the same JSON documents the REST
// API accepts, so the service needs no generated message types.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "healthexport.v1.HealthExportService"
	protoFile   = "healthexport/v1/healthexport.proto"

	ExportSleepMethod    = "/" + ServiceName + "/ExportSleep"
	ExportExerciseMethod = "/" + ServiceName + "/ExportExercise"
	ExportGlucoseMethod  = "/" + ServiceName + "/ExportGlucose"
	HealthCheckMethod    = "/" + ServiceName + "/HealthCheck"
)

// HealthExportServiceServer is the server API for HealthExportService.
type HealthExportServiceServer interface {
	ExportSleep(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportExercise(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportGlucose(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HealthCheck(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterHealthExportServiceServer registers srv on s.
func RegisterHealthExportServiceServer(s grpc.ServiceRegistrar, srv HealthExportServiceServer) {
	s.RegisterService(&HealthExportServiceDesc, srv)
}

// HealthExportServiceDesc describes the service for grpc.Server.
var HealthExportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HealthExportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExportSleep", Handler: exportHandler(ExportSleepMethod, HealthExportServiceServer.ExportSleep)},
		{MethodName: "ExportExercise", Handler: exportHandler(ExportExerciseMethod, HealthExportServiceServer.ExportExercise)},
		{MethodName: "ExportGlucose", Handler: exportHandler(ExportGlucoseMethod, HealthExportServiceServer.ExportGlucose)},
		{MethodName: "HealthCheck", Handler: healthCheckHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

type exportFunc func(HealthExportServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func exportHandler(fullMethod string, call exportFunc) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HealthExportServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HealthExportServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func healthCheckHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HealthExportServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HealthCheckMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HealthExportServiceServer).HealthCheck(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// The descriptor is registered so server reflection can describe the service.
func init() {
	method := func(name, in string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(in),
			OutputType: proto.String(".google.protobuf.Struct"),
		}
	}
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String("healthexport.v1"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/empty.proto", "google/protobuf/struct.proto"},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("HealthExportService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ExportSleep", ".google.protobuf.Struct"),
				method("ExportExercise", ".google.protobuf.Struct"),
				method("ExportGlucose", ".google.protobuf.Struct"),
				method("HealthCheck", ".google.protobuf.Empty"),
			},
		}},
		Options: &descriptorpb.FileOptions{GoPackage: proto.String("github.com/itsatony/healthhub/internal/rpc")},
	}
	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
}
