// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rbac grants and revokes built-in Azure roles for directory
// principals.
//
// Assignments are idempotent: before creating an assignment the existing
// assignments at the scope are searched for the same principal and role
// definition, and a create that races with another and reports
// RoleAssignmentExists is treated as success.
package rbac

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v3"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/unicloud/uc-adapter-azure/internal/azure"
	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
	"github.com/unicloud/uc-adapter-azure/internal/replication"
)

var logger = loggo.GetLogger("uc.adapter.rbac")

// PrincipalType is the kind of directory object an assignment is made to.
type PrincipalType string

const (
	PrincipalGroup PrincipalType = "Group"
	PrincipalUser  PrincipalType = "User"
)

// Config holds the dependencies of a Manager.
type Config struct {
	SubscriptionID  string
	RoleDefinitions *armauthorization.RoleDefinitionsClient
	RoleAssignments *armauthorization.RoleAssignmentsClient
	Clock           clock.Clock

	// NewUUID generates role assignment names. Defaults to uuid.NewRandom.
	NewUUID func() (uuid.UUID, error)
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.SubscriptionID == "" {
		return errors.NotValidf("empty SubscriptionID")
	}
	if c.RoleDefinitions == nil {
		return errors.NotValidf("nil RoleDefinitions")
	}
	if c.RoleAssignments == nil {
		return errors.NotValidf("nil RoleAssignments")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Manager creates and removes role assignments.
type Manager struct {
	subscriptionID  string
	roleDefinitions *armauthorization.RoleDefinitionsClient
	roleAssignments *armauthorization.RoleAssignmentsClient
	clock           clock.Clock
	newUUID         func() (uuid.UUID, error)
}

// NewManager returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	newUUID := cfg.NewUUID
	if newUUID == nil {
		newUUID = uuid.NewRandom
	}
	return &Manager{
		subscriptionID:  cfg.SubscriptionID,
		roleDefinitions: cfg.RoleDefinitions,
		roleAssignments: cfg.RoleAssignments,
		clock:           cfg.Clock,
		newUUID:         newUUID,
	}, nil
}

// SubscriptionScope returns the scope used when none is given.
func (m *Manager) SubscriptionScope() string {
	return azure.SubscriptionScope(m.subscriptionID)
}

func (m *Manager) scope(scope string) (string, error) {
	if scope == "" {
		scope = m.SubscriptionScope()
	}
	if err := azure.ValidateScope(scope); err != nil {
		return "", errors.Trace(err)
	}
	return scope, nil
}

// AssignParams describes a role assignment to make.
type AssignParams struct {
	ResourceType  string
	PrincipalID   string
	PrincipalType PrincipalType

	// Scope defaults to the subscription.
	Scope string
}

// Validate checks the parameters are usable.
func (p AssignParams) Validate() error {
	if p.PrincipalID == "" {
		return errors.NotValidf("empty principal ID")
	}
	switch p.PrincipalType {
	case PrincipalGroup, PrincipalUser:
	default:
		return errors.NotValidf("principal type %q", p.PrincipalType)
	}
	_, err := RoleName(p.ResourceType)
	return errors.Trace(err)
}

// Assignment describes the outcome of AssignRole.
type Assignment struct {
	Name             string
	RoleName         string
	RoleDefinitionID string
	Scope            string

	// Existing is true when the assignment was already present and no
	// create was issued.
	Existing bool

	// Verified is false when a newly created assignment could not be read
	// back. The assignment is left in place; visibility usually catches up.
	Verified bool
}

// AssignRole grants the role mapped to p.ResourceType to the principal.
func (m *Manager) AssignRole(ctx context.Context, p AssignParams) (Assignment, error) {
	if err := p.Validate(); err != nil {
		return Assignment{}, errors.Trace(err)
	}
	scope, err := m.scope(p.Scope)
	if err != nil {
		return Assignment{}, errors.Trace(err)
	}
	roleName, _ := RoleName(p.ResourceType)
	roleDefinitionID, err := m.RoleDefinitionID(ctx, roleName)
	if err != nil {
		return Assignment{}, errors.Trace(err)
	}
	result := Assignment{RoleName: roleName, RoleDefinitionID: roleDefinitionID, Scope: scope}

	existing, err := m.findAssignment(ctx, scope, p.PrincipalID, roleDefinitionID)
	if err != nil {
		// Lookup failures fall through to create; a duplicate create is
		// still reported as RoleAssignmentExists.
		logger.Warningf("checking existing assignments for %s: %v", p.PrincipalID, err)
	} else if existing != nil {
		logger.Infof("%s %s already has role %q at %s", p.PrincipalType, p.PrincipalID, roleName, scope)
		result.Name = stringValue(existing.Name)
		result.Existing = true
		result.Verified = true
		return result, nil
	}

	assignmentUUID, err := m.newUUID()
	if err != nil {
		return Assignment{}, errors.Annotate(err, "generating role assignment name")
	}
	result.Name = assignmentUUID.String()
	principalType := armauthorization.PrincipalType(p.PrincipalType)

	err = replication.Call(ctx, replication.CallArgs{
		Operation:   fmt.Sprintf("assign role %q to %s %s", roleName, p.PrincipalType, p.PrincipalID),
		Policy:      replication.RoleAssignmentPolicy,
		Clock:       m.clock,
		IsTransient: errorutils.IsPrincipalNotFound,
		Func: func(ctx context.Context) error {
			_, err := m.roleAssignments.Create(ctx, scope, result.Name, armauthorization.RoleAssignmentCreateParameters{
				Properties: &armauthorization.RoleAssignmentProperties{
					PrincipalID:      to.Ptr(p.PrincipalID),
					PrincipalType:    to.Ptr(principalType),
					RoleDefinitionID: to.Ptr(roleDefinitionID),
				},
			}, nil)
			return err
		},
	})
	if errorutils.IsRoleAssignmentExists(err) || errorutils.IsConflictError(err) {
		logger.Infof("role %q for %s %s created concurrently", roleName, p.PrincipalType, p.PrincipalID)
		result.Existing = true
		result.Verified = true
		return result, nil
	} else if err != nil {
		return Assignment{}, errors.Annotatef(err, "assigning role %q to %s", roleName, p.PrincipalID)
	}

	result.Verified = m.verify(ctx, scope, result.Name)
	logger.Infof("assigned role %q to %s %s at %s (verified=%v)",
		roleName, p.PrincipalType, p.PrincipalID, scope, result.Verified)
	return result, nil
}

// verify reads back a created assignment. It never fails the caller.
func (m *Manager) verify(ctx context.Context, scope, name string) bool {
	_, err := m.roleAssignments.Get(ctx, scope, name, nil)
	if err == nil {
		return true
	}
	if errorutils.IsNotFoundError(err) {
		logger.Warningf("role assignment %s not yet visible at %s", name, scope)
	} else {
		logger.Warningf("verifying role assignment %s: %v", name, err)
	}
	return false
}

// RoleDefinitionID returns the ID of the built-in role with the given
// name, as seen from the subscription.
func (m *Manager) RoleDefinitionID(ctx context.Context, roleName string) (string, error) {
	pager := m.roleDefinitions.NewListPager(m.SubscriptionScope(), &armauthorization.RoleDefinitionsClientListOptions{
		Filter: to.Ptr(fmt.Sprintf("roleName eq '%s'", roleName)),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", errors.Annotatef(err, "listing role definitions named %q", roleName)
		}
		for _, def := range page.Value {
			if def == nil || def.ID == nil || def.Properties == nil {
				continue
			}
			if strings.EqualFold(stringValue(def.Properties.RoleName), roleName) {
				return *def.ID, nil
			}
		}
	}
	return "", errors.NotFoundf("role definition %q", roleName)
}

// listAssignments returns the assignments at scope held by principalID.
func (m *Manager) listAssignments(ctx context.Context, scope, principalID string) ([]*armauthorization.RoleAssignment, error) {
	pager := m.roleAssignments.NewListForScopePager(scope, &armauthorization.RoleAssignmentsClientListForScopeOptions{
		Filter: to.Ptr(fmt.Sprintf("principalId eq '%s'", principalID)),
	})
	var result []*armauthorization.RoleAssignment
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Annotatef(err, "listing role assignments at %s", scope)
		}
		for _, ra := range page.Value {
			if ra == nil || ra.Properties == nil {
				continue
			}
			if strings.EqualFold(stringValue(ra.Properties.PrincipalID), principalID) {
				result = append(result, ra)
			}
		}
	}
	return result, nil
}

func (m *Manager) findAssignment(ctx context.Context, scope, principalID, roleDefinitionID string) (*armauthorization.RoleAssignment, error) {
	assignments, err := m.listAssignments(ctx, scope, principalID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, ra := range assignments {
		if sameRoleDefinition(stringValue(ra.Properties.RoleDefinitionID), roleDefinitionID) {
			return ra, nil
		}
	}
	return nil, nil
}

// sameRoleDefinition compares role definition IDs, which may be reported
// with different casing or scope prefixes.
func sameRoleDefinition(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	last := func(id string) string {
		return id[strings.LastIndex(id, "/")+1:]
	}
	return a != "" && b != "" && strings.EqualFold(last(a), last(b))
}

// RemoveAssignments deletes every role assignment held by the principal at
// scope and returns how many are gone. Assignments already removed count
// as removed; failures are logged and the remaining assignments are still
// attempted.
func (m *Manager) RemoveAssignments(ctx context.Context, principalID string, principalType PrincipalType, scope string) (int, error) {
	scope, err := m.scope(scope)
	if err != nil {
		return 0, errors.Trace(err)
	}
	assignments, err := m.listAssignments(ctx, scope, principalID)
	if err != nil {
		return 0, errors.Trace(err)
	}
	removed := 0
	for _, ra := range assignments {
		if principalType != "" && ra.Properties.PrincipalType != nil &&
			!strings.EqualFold(string(*ra.Properties.PrincipalType), string(principalType)) {
			continue
		}
		name := stringValue(ra.Name)
		err := replication.Call(ctx, replication.CallArgs{
			Operation: "delete role assignment " + name,
			Policy:    replication.DeletePolicy,
			Clock:     m.clock,
			IsTransient: func(err error) bool {
				return errorutils.IsThrottledError(err) || errorutils.IsServerError(err)
			},
			Func: func(ctx context.Context) error {
				_, err := m.roleAssignments.Delete(ctx, scope, name, nil)
				if errorutils.IsNotFoundError(err) || errorutils.IsConflictError(err) {
					logger.Debugf("role assignment %s already removed", name)
					return nil
				}
				return err
			},
		})
		if err != nil {
			logger.Warningf("removing role assignment %s for %s: %v", name, principalID, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Infof("removed %d role assignment(s) for %s %s at %s", removed, principalType, principalID, scope)
	}
	return removed, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
