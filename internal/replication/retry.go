// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package replication retries mutations against the directory and the
// authorization service while a freshly written object becomes visible.
//
// Writes to Entra ID replicate asynchronously, so a membership or role
// assignment that refers to a user or group created a moment earlier may
// fail with "not found" for a few seconds. The policies here retry such
// failures a bounded number of times with a fixed delay.
package replication

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/retry"
)

var logger = loggo.GetLogger("uc.adapter.replication")

// Policy bounds a retry loop.
type Policy struct {
	// Attempts is the total number of times the operation is tried.
	Attempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

var (
	// MembershipPolicy applies to adding members and owners to a group.
	MembershipPolicy = Policy{Attempts: 5, Delay: 3 * time.Second}

	// RoleAssignmentPolicy applies to creating role assignments for a
	// principal that may not have replicated yet.
	RoleAssignmentPolicy = Policy{Attempts: 5, Delay: 5 * time.Second}

	// LookupPolicy applies to waiting for a new group to become visible.
	LookupPolicy = Policy{Attempts: 5, Delay: 3 * time.Second}

	// DeletePolicy applies to deleting users and role assignments.
	DeletePolicy = Policy{Attempts: 3, Delay: 2 * time.Second}

	// MemberListPolicy applies to listing the members of a group that may
	// not have replicated yet.
	MemberListPolicy = Policy{Attempts: 3, Delay: 2 * time.Second}
)

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if p.Attempts < 1 {
		return errors.NotValidf("attempts %d", p.Attempts)
	}
	if p.Delay <= 0 {
		return errors.NotValidf("delay %v", p.Delay)
	}
	return nil
}

// ExhaustedError is returned when every attempt failed with a transient
// error. It wraps the error of the last attempt.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Err       error
}

// Error is part of the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.Err)
}

// Unwrap returns the error of the last attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err came from a retry loop which ran out of
// attempts.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

// CallArgs holds the arguments to Call.
type CallArgs struct {
	// Operation names the mutation in logs and errors.
	Operation string

	// Policy bounds the number of attempts and the delay between them.
	Policy Policy

	// Clock is used to wait between attempts.
	Clock clock.Clock

	// IsTransient reports whether an error should be retried. Errors for
	// which it returns false are returned immediately.
	IsTransient func(error) bool

	// Func is the mutation to perform.
	Func func(context.Context) error
}

// Validate checks the arguments are usable.
func (args CallArgs) Validate() error {
	if args.Func == nil {
		return errors.NotValidf("nil Func")
	}
	if args.IsTransient == nil {
		return errors.NotValidf("nil IsTransient")
	}
	if args.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return errors.Trace(args.Policy.Validate())
}

// Call runs args.Func until it succeeds, fails with a non-transient error,
// runs out of attempts, or ctx is done.
func Call(ctx context.Context, args CallArgs) error {
	if err := args.Validate(); err != nil {
		return errors.Trace(err)
	}
	op := args.Operation
	if op == "" {
		op = "operation"
	}
	var fatal error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return args.Func(ctx)
		},
		IsFatalError: func(err error) bool {
			if !args.IsTransient(err) {
				fatal = err
				return true
			}
			return false
		},
		NotifyFunc: func(err error, attempt int) {
			if attempt < args.Policy.Attempts {
				logger.Warningf("%s: attempt %d/%d failed, retrying in %v: %v",
					op, attempt, args.Policy.Attempts, args.Policy.Delay, err)
			}
		},
		Attempts: args.Policy.Attempts,
		Delay:    args.Policy.Delay,
		Clock:    args.Clock,
		Stop:     ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case fatal != nil:
		return fatal
	case retry.IsAttemptsExceeded(err):
		last := retry.LastError(err)
		logger.Errorf("%s: giving up after %d attempts: %v", op, args.Policy.Attempts, last)
		return &ExhaustedError{Operation: op, Attempts: args.Policy.Attempts, Err: last}
	case retry.IsRetryStopped(err):
		return errors.Annotatef(ctx.Err(), "%s interrupted", op)
	}
	return errors.Trace(err)
}
