// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package server

import (
	"context"

	"github.com/juju/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusError converts err into a gRPC status error, keeping its message.
func statusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(statusCode(err), err.Error())
}

func statusCode(err error) codes.Code {
	switch {
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		return codes.InvalidArgument
	case errors.Is(err, errors.NotFound):
		return codes.NotFound
	case errors.Is(err, errors.AlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, errors.QuotaLimitExceeded):
		return codes.ResourceExhausted
	case errors.Is(err, errors.NotSupported), errors.Is(err, errors.NotImplemented):
		return codes.Unimplemented
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}
