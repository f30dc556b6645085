package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
)

// toStatus converts a service error into a gRPC status error. Unexpected
// errors are logged and reported as Internal without their details.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		validation *domain.ValidationError
		authErr    *domain.AuthError
		notFound   *domain.NotFoundError
		unknown    *domain.UnknownUserError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, validation.Error())
	case errors.As(err, &authErr):
		return status.Error(codes.Unauthenticated, authErr.Error())
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, notFound.Error())
	case errors.As(err, &unknown):
		return status.Error(codes.FailedPrecondition, unknown.Error())
	case errors.As(err, &conflict):
		if conflict.Duplicate {
			return status.Error(codes.AlreadyExists, conflict.Error())
		}
		return status.Error(codes.FailedPrecondition, conflict.Error())
	}

	logger.Error("Unhandled error", "error", err)
	return status.Error(codes.Internal, "internal error")
}
