// FilePath: internal/rpc/rpc.client.go
package rpc

import (
	"context"
	"fmt"

	"github.com/itsatony/healthhub/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls HealthExportService.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// Dial creates a client for target using plaintext transport.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gRPC client for %s: %w", target, err)
	}
	return &Client{cc: conn, conn: conn}, nil
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close closes the connection if the client created it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) ExportSleep(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ExportSleepMethod, in, opts...)
}

func (c *Client) ExportExercise(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ExportExerciseMethod, in, opts...)
}

func (c *Client) ExportGlucose(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ExportGlucoseMethod, in, opts...)
}

func (c *Client) HealthCheck(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HealthCheckMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Export sends payload to the method for kind and decodes the result.
func (c *Client) Export(ctx context.Context, kind models.Kind, payload map[string]any) (models.IngestResult, error) {
	in, err := structpb.NewStruct(payload)
	if err != nil {
		return models.IngestResult{}, fmt.Errorf("encode payload: %w", err)
	}

	var out *structpb.Struct
	switch kind {
	case models.KindSleep:
		out, err = c.ExportSleep(ctx, in)
	case models.KindExercise:
		out, err = c.ExportExercise(ctx, in)
	case models.KindGlucose:
		out, err = c.ExportGlucose(ctx, in)
	default:
		return models.IngestResult{}, fmt.Errorf("unknown metric kind %q", kind)
	}
	if err != nil {
		return models.IngestResult{}, err
	}
	return ResultFromStruct(out), nil
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
