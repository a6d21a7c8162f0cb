package grpc

import (
	"errors"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusCode maps a coded error to the gRPC status code reported to callers
func StatusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeCheckpointCorrupt:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeUnbalanced:
		return codes.FailedPrecondition
	case mdwerror.CodeCanceled:
		return codes.Canceled
	default:
		return codes.Internal
	}
}

// ToStatus converts an error into a gRPC status error. Errors that already
// carry a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var coded *mdwerror.Error
	if !errors.As(err, &coded) {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(StatusCode(coded.Code()), err.Error())
}

// FromStatus turns a gRPC status error back into a coded error
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.OK {
		return err
	}

	code := mdwerror.CodeInternal
	switch st.Code() {
	case codes.InvalidArgument:
		code = mdwerror.CodeInvalidInput
	case codes.NotFound:
		code = mdwerror.CodeNotFound
	case codes.FailedPrecondition:
		code = mdwerror.CodeUnbalanced
	case codes.Canceled, codes.DeadlineExceeded:
		code = mdwerror.CodeCanceled
	}
	return mdwerror.New(st.Message()).
		WithCode(code).
		WithDetail("grpc_code", st.Code().String())
}
