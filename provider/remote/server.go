package remote

import (
	"bytes"
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"keyward.io/keyward/wire"
)

// Handler answers one framed request. *service.Service satisfies this.
type Handler interface {
	HandleRequest(ctx context.Context, req *wire.Request) *wire.Response
}

// Server exposes a request Handler over the Exec gRPC service, so a
// keyward facility can serve key operations to remote peers. Protocol
// failures stay inside the frame as wire statuses; gRPC errors are
// reserved for transport problems and unframeable payloads.
type Server struct {
	UnimplementedExecServer
	Handler Handler
}

func (s *Server) Execute(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Handler == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing handler")
	}
	req, err := wire.ReadRequest(bytes.NewReader(in.GetValue()))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp := s.Handler.HandleRequest(ctx, req)

	var buf bytes.Buffer
	if err := resp.Write(&buf); err != nil {
		return nil, status.Error(codes.Internal, "response framing failed")
	}
	return wrapperspb.Bytes(buf.Bytes()), nil
}
