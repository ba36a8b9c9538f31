// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package identity orchestrates the lifecycle of a group: its directory
// group and users, its role assignments and its cloud resources.
package identity

import (
	"context"
	"strings"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/unicloud/uc-adapter-azure/internal/directory"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

var logger = loggo.GetLogger("uc.adapter.identity")

// Directory is the subset of the directory used to manage groups.
type Directory interface {
	GroupByName(ctx context.Context, name string) (directory.Group, error)
	GroupExists(ctx context.Context, name string) (bool, error)
	CreateGroup(ctx context.Context, name, description string) (directory.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error

	AddMember(ctx context.Context, groupID, userID string) error
	AddOwner(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	RemoveOwner(ctx context.Context, groupID, userID string) error
	ListUserMembers(ctx context.Context, groupID string) ([]directory.User, error)
	ListOwners(ctx context.Context, groupID string) ([]directory.User, error)

	CreateUser(ctx context.Context, p directory.UserParams) (directory.User, error)
	GetUser(ctx context.Context, idOrPrincipalName string) (directory.User, error)
	DeleteUser(ctx context.Context, userID string) error
	FindUsersByPrincipalSuffix(ctx context.Context, suffix string) ([]directory.User, error)
}

// RoleAssigner grants and revokes built-in roles.
type RoleAssigner interface {
	AssignRole(ctx context.Context, p rbac.AssignParams) (rbac.Assignment, error)
	RemoveAssignments(ctx context.Context, principalID string, principalType rbac.PrincipalType, scope string) (int, error)
}

// ResourceCleaner deletes the cloud resources of a group.
type ResourceCleaner interface {
	CleanupGroup(ctx context.Context, group string) (resources.CleanupResult, error)
}

// ResourceGroupEnsurer creates the resource group of a group.
type ResourceGroupEnsurer interface {
	Ensure(ctx context.Context, group, location string) (string, error)
}

// UserLimiter enforces the cap on directory users.
type UserLimiter interface {
	EnsureUserLimit(ctx context.Context, more int) error
}

// Prober checks the cloud subscription is reachable.
type Prober interface {
	ProbeSubscription(ctx context.Context) error
}

// Config holds the dependencies of a Service.
type Config struct {
	Directory      Directory
	Roles          RoleAssigner
	Cleaner        ResourceCleaner
	ResourceGroups ResourceGroupEnsurer
	Limits         UserLimiter
	Prober         Prober
	Clock          clock.Clock

	// UserDomain is the directory domain of created users.
	UserDomain string

	// Location is the region of resource groups created for new groups.
	Location string
}

// Validate checks the configuration is complete.
func (c Config) Validate() error {
	switch {
	case c.Directory == nil:
		return errors.NotValidf("nil Directory")
	case c.Roles == nil:
		return errors.NotValidf("nil Roles")
	case c.Cleaner == nil:
		return errors.NotValidf("nil Cleaner")
	case c.ResourceGroups == nil:
		return errors.NotValidf("nil ResourceGroups")
	case c.Limits == nil:
		return errors.NotValidf("nil Limits")
	case c.Prober == nil:
		return errors.NotValidf("nil Prober")
	case c.Clock == nil:
		return errors.NotValidf("nil Clock")
	case c.UserDomain == "":
		return errors.NotValidf("empty UserDomain")
	case c.Location == "":
		return errors.NotValidf("empty Location")
	}
	return nil
}

// Service implements the identity operations. Every call runs its cloud
// requests sequentially.
type Service struct {
	config Config
}

// NewService returns a Service.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Service{config: cfg}, nil
}

// Status reports whether the adapter can reach its subscription.
func (s *Service) Status(ctx context.Context) bool {
	if err := s.config.Prober.ProbeSubscription(ctx); err != nil {
		logger.Errorf("status check failed: %v", err)
		return false
	}
	return true
}

// GroupExists reports whether a group with the normalised name exists.
func (s *Service) GroupExists(ctx context.Context, name string) (bool, error) {
	normalized := naming.NormalizeName(name)
	if normalized == "" {
		return false, errors.NotValidf("empty group name")
	}
	exists, err := s.config.Directory.GroupExists(ctx, normalized)
	return exists, errors.Trace(err)
}

// principalName returns the principal name of login as a user of group.
func (s *Service) principalName(login, group string) string {
	return naming.UserPrincipalName(naming.UserLogin(login, group), s.config.UserDomain)
}

// userParams returns the parameters for creating login as a user of group.
func (s *Service) userParams(login, group string) directory.UserParams {
	return directory.UserParams{
		UserPrincipalName: s.principalName(login, group),
		DisplayName:       naming.UserLogin(login, group),
		Password:          naming.InitialPassword(group),
	}
}

// assignGroupRoles grants the group the role of each resource type,
// logging failures.
func (s *Service) assignGroupRoles(ctx context.Context, groupID, group string, types []string) []PolicyOutcome {
	var outcomes []PolicyOutcome
	for _, resourceType := range rbac.OrderResourceTypes(types) {
		outcome := PolicyOutcome{ResourceType: resourceType, Principal: group}
		_, err := s.config.Roles.AssignRole(ctx, rbac.AssignParams{
			ResourceType:  resourceType,
			PrincipalID:   groupID,
			PrincipalType: rbac.PrincipalGroup,
		})
		if err != nil {
			logger.Warningf("assigning %s role to group %s: %v", resourceType, group, err)
			outcome.Reason = err.Error()
		} else {
			outcome.Assigned = true
			logger.Infof("assigned %s role to group %s", resourceType, group)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// uniqueLogins trims logins and drops empty and repeated entries, keeping
// the first occurrence order.
func uniqueLogins(logins []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, login := range logins {
		login = strings.TrimSpace(login)
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		unique = append(unique, login)
	}
	if len(unique) != len(logins) {
		logger.Debugf("deduplicated logins: %d -> %d", len(logins), len(unique))
	}
	return unique
}
