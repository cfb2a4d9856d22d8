// Package rpc declares the dataschema.v1 gRPC services. Requests and responses
// are google.protobuf.Struct messages, so no generated code is needed.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service names
const (
	SchemaServiceName = "dataschema.v1.SchemaService"
	APIKeyServiceName = "dataschema.v1.APIKeyService"
)

// Metadata keys
const (
	APIKeyHeader = "x-api-key"
	AppIDHeader  = "x-app-id"
)

// SchemaServiceServer is the server API for dataschema.v1.SchemaService
type SchemaServiceServer interface {
	Write(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Read(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListVersions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// APIKeyServiceServer is the server API for dataschema.v1.APIKeyService
type APIKeyServiceServer interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Extend(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func handler[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// SchemaServiceDesc describes dataschema.v1.SchemaService
var SchemaServiceDesc = grpc.ServiceDesc{
	ServiceName: SchemaServiceName,
	HandlerType: (*SchemaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		handler(SchemaServiceName, "Write", SchemaServiceServer.Write),
		handler(SchemaServiceName, "Read", SchemaServiceServer.Read),
		handler(SchemaServiceName, "Validate", SchemaServiceServer.Validate),
		handler(SchemaServiceName, "Delete", SchemaServiceServer.Delete),
		handler(SchemaServiceName, "ListVersions", SchemaServiceServer.ListVersions),
		handler(SchemaServiceName, "Compile", SchemaServiceServer.Compile),
	},
	Metadata: "dataschema/v1/schema",
}

// APIKeyServiceDesc describes dataschema.v1.APIKeyService
var APIKeyServiceDesc = grpc.ServiceDesc{
	ServiceName: APIKeyServiceName,
	HandlerType: (*APIKeyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		handler(APIKeyServiceName, "Create", APIKeyServiceServer.Create),
		handler(APIKeyServiceName, "List", APIKeyServiceServer.List),
		handler(APIKeyServiceName, "Delete", APIKeyServiceServer.Delete),
		handler(APIKeyServiceName, "Extend", APIKeyServiceServer.Extend),
	},
	Metadata: "dataschema/v1/api_key",
}

// RegisterSchemaServiceServer registers srv on s
func RegisterSchemaServiceServer(s grpc.ServiceRegistrar, srv SchemaServiceServer) {
	s.RegisterService(&SchemaServiceDesc, srv)
}

// RegisterAPIKeyServiceServer registers srv on s
func RegisterAPIKeyServiceServer(s grpc.ServiceRegistrar, srv APIKeyServiceServer) {
	s.RegisterService(&APIKeyServiceDesc, srv)
}

// Client invokes methods of either service by name
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Invoke calls service/method with req
func (c *Client) Invoke(ctx context.Context, service, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+service+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Schema calls a dataschema.v1.SchemaService method
func (c *Client) Schema(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return c.Invoke(ctx, SchemaServiceName, method, req, opts...)
}

// APIKeys calls a dataschema.v1.APIKeyService method
func (c *Client) APIKeys(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return c.Invoke(ctx, APIKeyServiceName, method, req, opts...)
}
