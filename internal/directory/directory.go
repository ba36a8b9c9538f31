// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package directory manages Entra ID groups and users through Microsoft
// Graph.
package directory

import (
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
)

var logger = loggo.GetLogger("uc.adapter.directory")

// directoryObjectURL is the reference body used to add members and owners.
const directoryObjectURL = "https://graph.microsoft.com/v1.0/directoryObjects/"

// Group is a security group in the directory.
type Group struct {
	ID          string
	DisplayName string
}

// User is a directory user.
type User struct {
	ID                string
	UserPrincipalName string
	DisplayName       string
}

// Config holds the dependencies of a Directory.
type Config struct {
	Client *msgraphsdk.GraphServiceClient
	Clock  clock.Clock
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.Client == nil {
		return errors.NotValidf("nil Client")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Directory wraps a Graph client.
type Directory struct {
	client *msgraphsdk.GraphServiceClient
	clock  clock.Clock
}

// New returns a Directory.
func New(cfg Config) (*Directory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Directory{client: cfg.Client, clock: cfg.Clock}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
