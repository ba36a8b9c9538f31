// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
)

// AssignPoliciesParams holds the arguments to AssignPolicies. At least one
// of GroupName and UserName must be set.
type AssignPoliciesParams struct {
	ResourceTypes []string
	GroupName     string
	UserName      string
}

// Validate checks the parameters are usable.
func (p AssignPoliciesParams) Validate() error {
	if len(p.ResourceTypes) == 0 {
		return errors.NotValidf("empty resource types list")
	}
	if strings.TrimSpace(p.GroupName) == "" && strings.TrimSpace(p.UserName) == "" {
		return errors.NotValidf("missing groupName and userName")
	}
	if err := rbac.ValidateResourceTypes(p.ResourceTypes); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// AssignPolicies grants the role of each resource type to the group. Roles
// are assigned in a fixed order and each is attempted regardless of the
// others. Assignments to individual users are not supported and are
// reported as failed outcomes.
func (s *Service) AssignPolicies(ctx context.Context, p AssignPoliciesParams) (AssignPoliciesResult, error) {
	if err := p.Validate(); err != nil {
		return AssignPoliciesResult{}, errors.Trace(err)
	}
	types := rbac.OrderResourceTypes(p.ResourceTypes)

	var result AssignPoliciesResult
	if strings.TrimSpace(p.GroupName) != "" {
		normalized := naming.NormalizeName(p.GroupName)
		group, err := s.config.Directory.GroupByName(ctx, normalized)
		switch {
		case errors.Is(err, errors.NotFound):
			reason := fmt.Sprintf("Group '%s' not found for policy assignment", normalized)
			for _, t := range types {
				result.Outcomes = append(result.Outcomes, PolicyOutcome{ResourceType: t, Principal: p.GroupName, Reason: reason})
			}
		case err != nil:
			return AssignPoliciesResult{}, errors.Trace(err)
		default:
			result.Outcomes = s.assignGroupRoles(ctx, group.ID, p.GroupName, types)
		}
	}
	if strings.TrimSpace(p.UserName) != "" {
		logger.Warningf("user-level policy assignment requested for %q", p.UserName)
		for _, t := range types {
			result.Outcomes = append(result.Outcomes, PolicyOutcome{
				ResourceType: t,
				Principal:    p.UserName,
				Reason:       "User-level assignment not implemented",
			})
		}
	}
	if !result.Success() {
		logger.Errorf("assign policies: %s", result.Message())
	}
	return result, nil
}
