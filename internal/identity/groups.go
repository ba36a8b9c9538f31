// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package identity

import (
	"context"
	"fmt"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
	"github.com/unicloud/uc-adapter-azure/internal/directory"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
	"github.com/unicloud/uc-adapter-azure/internal/replication"
)

// errNoMembers is retried while a freshly populated group replicates.
const errNoMembers = errors.ConstError("group has no user members yet")

// CreateGroupParams holds the arguments to CreateGroupWithLeaders and
// UpdateGroupLeaders.
type CreateGroupParams struct {
	Name          string
	ResourceTypes []string
	Leaders       []string
}

// Validate checks the parameters are usable.
func (p CreateGroupParams) Validate() error {
	if naming.NormalizeName(p.Name) == "" {
		return errors.NotValidf("empty group name")
	}
	return errors.Trace(rbac.ValidateResourceTypes(p.ResourceTypes))
}

// CreateGroupWithLeaders creates a group with its resource group, grants
// it the roles of every requested resource type and creates each leader as
// a member and owner. If a leader cannot be created or added, the leaders
// created so far and the group are removed again.
func (s *Service) CreateGroupWithLeaders(ctx context.Context, p CreateGroupParams) (CreateGroupResult, error) {
	if err := p.Validate(); err != nil {
		return CreateGroupResult{}, errors.Trace(err)
	}
	normalized := naming.NormalizeName(p.Name)
	leaders := uniqueLogins(p.Leaders)

	exists, err := s.config.Directory.GroupExists(ctx, normalized)
	if err != nil {
		return CreateGroupResult{}, errors.Trace(err)
	}
	if exists {
		return CreateGroupResult{}, errors.AlreadyExistsf("group %q", normalized)
	}
	if err := s.config.Limits.EnsureUserLimit(ctx, len(leaders)); err != nil {
		return CreateGroupResult{}, errors.Trace(err)
	}

	group, err := s.config.Directory.CreateGroup(ctx, normalized, fmt.Sprintf("Group %s", p.Name))
	if err != nil {
		return CreateGroupResult{}, errors.Trace(err)
	}
	result := CreateGroupResult{GroupName: p.Name, GroupID: group.ID}

	rg, err := s.config.ResourceGroups.Ensure(ctx, normalized, s.config.Location)
	if err != nil {
		logger.Warningf("creating resource group for %q: %v", normalized, err)
	} else {
		result.ResourceGroup = rg
	}
	result.Policies = s.assignGroupRoles(ctx, group.ID, p.Name, p.ResourceTypes)

	var created []directory.User
	for _, login := range leaders {
		user, err := s.config.Directory.CreateUser(ctx, s.userParams(login, p.Name))
		if err != nil {
			s.rollbackGroup(ctx, group, created)
			return CreateGroupResult{}, errors.Annotatef(err, "creating leader %q", login)
		}
		created = append(created, user)
		if err := s.config.Directory.AddMember(ctx, group.ID, user.ID); err != nil {
			s.rollbackGroup(ctx, group, created)
			return CreateGroupResult{}, errors.Annotatef(err, "adding leader %q to group %q", login, normalized)
		}
		if err := s.config.Directory.AddOwner(ctx, group.ID, user.ID); err != nil {
			logger.Warningf("making %q an owner of group %q: %v", user.UserPrincipalName, normalized, err)
		}
		result.Leaders = append(result.Leaders, user.UserPrincipalName)
	}
	logger.Infof("created group %q with %d leader(s)", normalized, len(result.Leaders))
	return result, nil
}

// rollbackGroup removes the users created for a group that could not be
// completed, then the group and its role assignments.
func (s *Service) rollbackGroup(ctx context.Context, group directory.Group, users []directory.User) {
	for _, user := range users {
		if err := s.config.Directory.DeleteUser(ctx, user.ID); err != nil {
			logger.Warningf("rollback: deleting user %q: %v", user.UserPrincipalName, err)
		}
	}
	if _, err := s.config.Roles.RemoveAssignments(ctx, group.ID, rbac.PrincipalGroup, ""); err != nil {
		logger.Warningf("rollback: removing role assignments of group %s: %v", group.ID, err)
	}
	if err := s.config.Directory.DeleteGroup(ctx, group.ID); err != nil {
		logger.Warningf("rollback: deleting group %s: %v", group.ID, err)
	}
}

// RemoveGroup tears a group down: its role assignments, its cloud
// resources, every user member and finally the group itself. Removing a
// group that does not exist succeeds.
func (s *Service) RemoveGroup(ctx context.Context, name string) (RemoveGroupResult, error) {
	normalized := naming.NormalizeName(name)
	if normalized == "" {
		return RemoveGroupResult{}, errors.NotValidf("empty group name")
	}
	group, err := s.config.Directory.GroupByName(ctx, normalized)
	if errors.Is(err, errors.NotFound) {
		logger.Infof("group %q does not exist, nothing to remove", normalized)
		return RemoveGroupResult{}, nil
	} else if err != nil {
		return RemoveGroupResult{}, errors.Trace(err)
	}
	result := RemoveGroupResult{Found: true}

	if n, err := s.config.Roles.RemoveAssignments(ctx, group.ID, rbac.PrincipalGroup, ""); err != nil {
		logger.Warningf("removing role assignments of group %q: %v", normalized, err)
	} else if n > 0 {
		logger.Infof("removed %d role assignment(s) of group %q", n, normalized)
	}

	cleanup, err := s.config.Cleaner.CleanupGroup(ctx, normalized)
	if err != nil {
		logger.Warningf("cleaning up resources of group %q: %v", normalized, err)
	}
	result.Resources = cleanup

	users, err := s.groupUsers(ctx, group.ID, normalized)
	if err != nil {
		return result, errors.Trace(err)
	}
	for _, user := range users {
		if err := s.removeUser(ctx, group.ID, user); err != nil {
			logger.Warningf("removing user %q: %v", user.UserPrincipalName, err)
			result.FailedUsers = append(result.FailedUsers, UserFailure{
				Login:  user.UserPrincipalName,
				Reason: err.Error(),
			})
			continue
		}
		result.RemovedUsers = append(result.RemovedUsers, user.UserPrincipalName)
	}

	if err := s.config.Directory.DeleteGroup(ctx, group.ID); err != nil {
		return result, errors.Annotatef(err, "deleting group %q", normalized)
	}
	logger.Infof("removed group %q and %d user(s)", normalized, len(result.RemovedUsers))
	return result, nil
}

// groupUsers returns the user members of a group. Membership reads lag
// behind writes, so an empty list is retried before falling back to a
// search for users whose principal name carries the group suffix.
func (s *Service) groupUsers(ctx context.Context, groupID, normalized string) ([]directory.User, error) {
	var users []directory.User
	err := replication.Call(ctx, replication.CallArgs{
		Operation: "list members of group " + normalized,
		Policy:    replication.MemberListPolicy,
		Clock:     s.config.Clock,
		IsTransient: func(err error) bool {
			return errors.Is(err, errNoMembers) || errorutils.IsTransientError(err)
		},
		Func: func(ctx context.Context) error {
			found, err := s.config.Directory.ListUserMembers(ctx, groupID)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return errNoMembers
			}
			users = found
			return nil
		},
	})
	if err == nil {
		return users, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	logger.Infof("listing members of group %q: %v; searching by principal name", normalized, err)

	suffix := naming.UserPrincipalName("-"+normalized, s.config.UserDomain)
	users, err = s.config.Directory.FindUsersByPrincipalSuffix(ctx, suffix)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(users) > 0 {
		logger.Warningf("group %q listed no members but %d user(s) carry its suffix", normalized, len(users))
	}
	return users, nil
}

// removeUser revokes the user's role assignments, removes the user from
// the group and deletes it.
func (s *Service) removeUser(ctx context.Context, groupID string, user directory.User) error {
	if _, err := s.config.Roles.RemoveAssignments(ctx, user.ID, rbac.PrincipalUser, ""); err != nil {
		logger.Warningf("removing role assignments of %q: %v", user.UserPrincipalName, err)
	}
	if err := s.config.Directory.RemoveMember(ctx, groupID, user.ID); err != nil {
		logger.Warningf("removing %q from group: %v", user.UserPrincipalName, err)
	}
	return errors.Trace(s.config.Directory.DeleteUser(ctx, user.ID))
}

// UpdateGroupLeaders makes the group's owners match the requested leaders.
// Owners no longer listed lose ownership and their own role assignments;
// new leaders are created if needed and added as members and owners. The
// roles of every requested resource type are then granted to the group.
func (s *Service) UpdateGroupLeaders(ctx context.Context, p CreateGroupParams) (LeadersResult, error) {
	if err := p.Validate(); err != nil {
		return LeadersResult{}, errors.Trace(err)
	}
	normalized := naming.NormalizeName(p.Name)
	group, err := s.config.Directory.GroupByName(ctx, normalized)
	if err != nil {
		return LeadersResult{}, errors.Trace(err)
	}
	owners, err := s.config.Directory.ListOwners(ctx, group.ID)
	if err != nil {
		return LeadersResult{}, errors.Trace(err)
	}

	current := make(map[string]directory.User)
	for _, owner := range owners {
		login := owner.ID
		if owner.UserPrincipalName != "" {
			login = naming.StripGroupSuffix(owner.UserPrincipalName, normalized)
		}
		current[login] = owner
	}
	existing := set.NewStrings()
	for login := range current {
		existing.Add(login)
	}
	wanted := set.NewStrings(uniqueLogins(p.Leaders)...)
	toRemove := existing.Difference(wanted).SortedValues()
	toAdd := wanted.Difference(existing).SortedValues()
	logger.Infof("leaders of group %q: adding %v, removing %v", normalized, toAdd, toRemove)

	if err := s.config.Limits.EnsureUserLimit(ctx, len(toAdd)); err != nil {
		return LeadersResult{}, errors.Trace(err)
	}

	result := LeadersResult{GroupName: p.Name}
	for _, login := range toRemove {
		owner := current[login]
		if err := s.config.Directory.RemoveOwner(ctx, group.ID, owner.ID); err != nil {
			result.Failed = append(result.Failed, UserFailure{Login: login, Reason: err.Error()})
			continue
		}
		if n, err := s.config.Roles.RemoveAssignments(ctx, owner.ID, rbac.PrincipalUser, ""); err != nil {
			logger.Warningf("removing role assignments of former leader %q: %v", login, err)
		} else if n > 0 {
			logger.Infof("removed %d role assignment(s) of former leader %q", n, login)
		}
		result.Removed = append(result.Removed, login)
	}
	for _, login := range toAdd {
		if err := s.addLeader(ctx, group, login, p.Name); err != nil {
			logger.Warningf("adding leader %q to group %q: %v", login, normalized, err)
			result.Failed = append(result.Failed, UserFailure{Login: login, Reason: err.Error()})
			continue
		}
		result.Added = append(result.Added, login)
	}
	result.Policies = s.assignGroupRoles(ctx, group.ID, p.Name, p.ResourceTypes)
	return result, nil
}

// addLeader gets or creates the user for login and makes it a member and
// an owner of group.
func (s *Service) addLeader(ctx context.Context, group directory.Group, login, groupName string) error {
	params := s.userParams(login, groupName)
	user, err := s.config.Directory.GetUser(ctx, params.UserPrincipalName)
	if errors.Is(err, errors.NotFound) {
		user, err = s.config.Directory.CreateUser(ctx, params)
	}
	if err != nil {
		return errors.Trace(err)
	}
	if err := s.config.Directory.AddMember(ctx, group.ID, user.ID); err != nil {
		logger.Warningf("adding leader %q as member: %v", login, err)
	}
	return errors.Trace(s.config.Directory.AddOwner(ctx, group.ID, user.ID))
}
