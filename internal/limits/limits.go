// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package limits enforces the configured cap on directory users.
package limits

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("uc.adapter.limits")

// UserCounter counts the users of the directory.
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// Config holds the dependencies and cap of a Checker. A cap of zero
// disables the check.
type Config struct {
	Users    UserCounter
	MaxUsers int
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Users == nil {
		return errors.NotValidf("nil Users")
	}
	if c.MaxUsers < 0 {
		return errors.NotValidf("negative limit")
	}
	return nil
}

// Checker counts users and compares them with the cap.
type Checker struct {
	config Config
}

// NewChecker returns a Checker.
func NewChecker(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Checker{config: cfg}, nil
}

// CountUsers returns the number of users in the directory.
func (l *Checker) CountUsers(ctx context.Context) (int, error) {
	n, err := l.config.Users.CountUsers(ctx)
	return n, errors.Trace(err)
}

// EnsureUserLimit returns a QuotaLimitExceeded error if adding more users
// would take the directory past the user cap.
func (l *Checker) EnsureUserLimit(ctx context.Context, more int) error {
	if l.config.MaxUsers == 0 {
		return nil
	}
	current, err := l.CountUsers(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("directory has %d users, adding %d, cap %d", current, more, l.config.MaxUsers)
	if current+more > l.config.MaxUsers {
		return errors.QuotaLimitExceededf("user limit: current=%d, requested=%d, max=%d", current, more, l.config.MaxUsers)
	}
	return nil
}
