// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package identity

import (
	"fmt"
	"strings"

	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

// UserFailure records why a user could not be processed.
type UserFailure struct {
	Login  string
	Reason string
}

// String is part of the fmt.Stringer interface.
func (f UserFailure) String() string {
	return f.Login + ": " + f.Reason
}

// CreateGroupResult describes a group created by CreateGroupWithLeaders.
type CreateGroupResult struct {
	// GroupName is the name the caller supplied.
	GroupName string
	GroupID   string

	// ResourceGroup is empty when the resource group could not be created.
	ResourceGroup string

	// Leaders holds the principal names of the leaders created.
	Leaders  []string
	Policies []PolicyOutcome
}

// Success reports whether the resource group was created and every role
// was assigned.
func (r CreateGroupResult) Success() bool {
	return r.ResourceGroup != "" && failedPolicies(r.Policies) == 0
}

// Message returns the summary reported to callers.
func (r CreateGroupResult) Message() string {
	msg := fmt.Sprintf("Group '%s' created with %d leader(s).", r.GroupName, len(r.Leaders))
	if r.ResourceGroup == "" {
		msg += " Resource group could not be created."
	}
	if n := failedPolicies(r.Policies); n > 0 {
		msg += fmt.Sprintf(" %d policy assignment(s) failed.", n)
	}
	return msg
}

// CreateUsersResult lists the outcome for every requested login.
type CreateUsersResult struct {
	Added          []string
	AlreadyMembers []string
	Failed         []UserFailure
}

// Success reports whether every login was added or already a member.
func (r CreateUsersResult) Success() bool {
	return len(r.Failed) == 0
}

// Message returns the summary reported to callers.
func (r CreateUsersResult) Message() string {
	if r.Success() {
		return fmt.Sprintf("Users successfully added: %d added, %d already member(s)",
			len(r.Added), len(r.AlreadyMembers))
	}
	return fmt.Sprintf("Some users could not be added: %d added, %d already member(s), %d failed",
		len(r.Added), len(r.AlreadyMembers), len(r.Failed))
}

// RemoveGroupResult describes the teardown of a group.
type RemoveGroupResult struct {
	// Found is false when there was no group to remove.
	Found bool

	// RemovedUsers holds the principal names of deleted users.
	RemovedUsers []string
	FailedUsers  []UserFailure
	Resources    resources.CleanupResult
}

// Message returns the summary reported to callers.
func (r RemoveGroupResult) Message(group string) string {
	if !r.Found {
		return fmt.Sprintf("Group '%s' does not exist", group)
	}
	msg := fmt.Sprintf("Group '%s' and its members have been removed. Azure resources cleaned up.", group)
	if n := len(r.FailedUsers); n > 0 {
		msg += fmt.Sprintf(" %d user(s) could not be removed.", n)
	}
	if n := len(r.Resources.Failed); n > 0 {
		msg += fmt.Sprintf(" %d resource(s) could not be deleted.", n)
	}
	return msg
}

// PolicyOutcome is the result of granting the role of one resource type to
// a principal.
type PolicyOutcome struct {
	ResourceType string
	Principal    string
	Assigned     bool
	Reason       string
}

// AssignPoliciesResult lists the outcome for every requested resource type.
type AssignPoliciesResult struct {
	Outcomes []PolicyOutcome
}

// Success reports whether at least one role was assigned.
func (r AssignPoliciesResult) Success() bool {
	for _, o := range r.Outcomes {
		if o.Assigned {
			return true
		}
	}
	return false
}

// Message returns the summary reported to callers.
func (r AssignPoliciesResult) Message() string {
	var assigned, failed []string
	for _, o := range r.Outcomes {
		if o.Assigned {
			assigned = append(assigned, o.ResourceType+"->"+o.Principal)
		} else {
			failed = append(failed, o.ResourceType+": "+o.Reason)
		}
	}
	if len(assigned) > 0 {
		msg := "Policies assigned successfully: " + strings.Join(assigned, ", ")
		if len(failed) > 0 {
			msg += ". Some assignments failed: " + strings.Join(failed, ", ")
		}
		return msg
	}
	details := "Unknown error"
	if len(failed) > 0 {
		details = strings.Join(failed, "; ")
	}
	return "No policies were assigned. Check if group exists and resource types are valid. Details: " + details
}

// LeadersResult describes the changes made by UpdateGroupLeaders.
type LeadersResult struct {
	GroupName string
	Added     []string
	Removed   []string
	Failed    []UserFailure
	Policies  []PolicyOutcome
}

// Success reports whether every leader change was applied and every role
// was assigned.
func (r LeadersResult) Success() bool {
	return len(r.Failed) == 0 && failedPolicies(r.Policies) == 0
}

// Message returns the summary reported to callers.
func (r LeadersResult) Message() string {
	msg := fmt.Sprintf("Leaders of group '%s' updated: %d added, %d removed", r.GroupName, len(r.Added), len(r.Removed))
	if n := len(r.Failed); n > 0 {
		msg += fmt.Sprintf(", %d failed", n)
	}
	msg += "."
	if n := failedPolicies(r.Policies); n > 0 {
		msg += fmt.Sprintf(" %d policy assignment(s) failed.", n)
	}
	return msg
}

func failedPolicies(outcomes []PolicyOutcome) int {
	var n int
	for _, o := range outcomes {
		if !o.Assigned {
			n++
		}
	}
	return n
}
