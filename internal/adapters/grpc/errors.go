package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// toStatusError maps engine and recipe errors to gRPC status codes:
// unknown materials are NotFound, broken graphs are FailedPrecondition and bad input is InvalidArgument.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		unknown      *recipe.ErrUnknownMaterial
		cycle        *recipe.ErrCycleDetected
		zeroYield    *recipe.ErrZeroEffectiveYield
		invalidQty   *planning.ErrInvalidQuantity
		invalidMode  *planning.ErrInvalidYieldMode
		invalidInput *recipe.ErrInvalidRecipe
	)

	switch {
	case errors.As(err, &unknown):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &cycle) || errors.As(err, &zeroYield):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &invalidQty) || errors.As(err, &invalidMode) || errors.As(err, &invalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// invalidArgument wraps a request decoding failure
func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}
