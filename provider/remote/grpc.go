package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ExecServer is the server API for the Exec gRPC service. A call carries
// one framed keyward request and returns the framed response.
//
// We intentionally use protobuf well-known wrapper types so this package
// does not require a protoc/codegen toolchain.
//
// Proto definition: exec.proto.
type ExecServer interface {
	Execute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedExecServer can be embedded to have forward compatible implementations.
type UnimplementedExecServer struct{}

func (UnimplementedExecServer) Execute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Execute not implemented")
}

// RegisterExecServer registers the Exec service on a gRPC server.
func RegisterExecServer(s grpc.ServiceRegistrar, srv ExecServer) {
	s.RegisterService(&Exec_ServiceDesc, srv)
}

// ExecClient is the client API for the Exec gRPC service.
type ExecClient interface {
	Execute(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type execClient struct{ cc grpc.ClientConnInterface }

func NewExecClient(cc grpc.ClientConnInterface) ExecClient { return &execClient{cc: cc} }

func (c *execClient) Execute(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/keyward.provider.remote.v1.Exec/Execute", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Exec_Execute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/keyward.provider.remote.v1.Exec/Execute"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecServer).Execute(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Exec_ServiceDesc is the grpc.ServiceDesc for the Exec service.
var Exec_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "keyward.provider.remote.v1.Exec",
	HandlerType: (*ExecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: _Exec_Execute_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "exec.proto",
}
