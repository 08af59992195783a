package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a thin InsightsService client
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call invokes method with the given fields as request body
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RunMonthlyAggregation triggers a batch run on the server. An empty asOf means "now" on the server.
func (c *Client) RunMonthlyAggregation(ctx context.Context, asOf string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	fields := map[string]any{}
	if asOf != "" {
		fields["as_of"] = asOf
	}
	return c.Call(ctx, MethodRunMonthlyAggregation, fields, opts...)
}
