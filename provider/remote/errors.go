package remote

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"keyward.io/keyward/wire"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return wire.WrapError(wire.StatusInvalidEncoding, "remote: facility rejected the request frame", err)
	case codes.Unimplemented:
		return wire.WrapError(wire.StatusUnsupportedOperation, "remote: facility does not serve this operation", err)
	default:
		return wire.WrapError(wire.StatusInternalError, "remote: rpc failed", err)
	}
}
