// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package identity

import (
	"context"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/directory"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/replication"
)

// CreateUsersForGroup creates a user for every login and adds it to the
// group. The group may have been created moments ago, so its lookup is
// retried until it replicates. Each login is handled independently and
// its outcome reported in the result.
func (s *Service) CreateUsersForGroup(ctx context.Context, name string, logins []string) (CreateUsersResult, error) {
	normalized := naming.NormalizeName(name)
	if normalized == "" {
		return CreateUsersResult{}, errors.NotValidf("empty group name")
	}
	group, err := s.waitForGroup(ctx, normalized)
	if err != nil {
		return CreateUsersResult{}, errors.Trace(err)
	}

	unique := uniqueLogins(logins)
	if err := s.config.Limits.EnsureUserLimit(ctx, len(unique)); err != nil {
		return CreateUsersResult{}, errors.Trace(err)
	}

	members := set.NewStrings()
	if existing, err := s.config.Directory.ListUserMembers(ctx, group.ID); err != nil {
		logger.Warningf("listing members of %q, continuing without duplicate check: %v", normalized, err)
	} else {
		for _, m := range existing {
			members.Add(m.ID)
		}
	}

	var result CreateUsersResult
	for _, login := range unique {
		user, err := s.userForLogin(ctx, login, name)
		if err != nil {
			logger.Errorf("creating user %q: %v", login, err)
			result.Failed = append(result.Failed, UserFailure{Login: login, Reason: "User creation failed: " + err.Error()})
			continue
		}
		if members.Contains(user.ID) {
			logger.Debugf("user %q already a member of %q", login, normalized)
			result.AlreadyMembers = append(result.AlreadyMembers, login)
			continue
		}
		if err := s.config.Directory.AddMember(ctx, group.ID, user.ID); err != nil {
			logger.Errorf("adding %q to %q: %v", login, normalized, err)
			result.Failed = append(result.Failed, UserFailure{Login: login, Reason: "Failed to add to group: " + err.Error()})
			continue
		}
		result.Added = append(result.Added, login)
	}
	logger.Infof("users for %q: %d added, %d already members, %d failed",
		normalized, len(result.Added), len(result.AlreadyMembers), len(result.Failed))
	return result, nil
}

// waitForGroup looks the group up until it becomes visible.
func (s *Service) waitForGroup(ctx context.Context, normalized string) (directory.Group, error) {
	var group directory.Group
	err := replication.Call(ctx, replication.CallArgs{
		Operation: "look up group " + normalized,
		Policy:    replication.LookupPolicy,
		Clock:     s.config.Clock,
		IsTransient: func(err error) bool {
			return errors.Is(err, errors.NotFound)
		},
		Func: func(ctx context.Context) error {
			var err error
			group, err = s.config.Directory.GroupByName(ctx, normalized)
			return err
		},
	})
	if replication.IsExhausted(err) {
		return directory.Group{}, errors.NotFoundf("group %q (checked %d times)", normalized, replication.LookupPolicy.Attempts)
	}
	return group, errors.Trace(err)
}

// userForLogin creates the user for login, or returns the existing one if
// it was created before.
func (s *Service) userForLogin(ctx context.Context, login, group string) (directory.User, error) {
	params := s.userParams(login, group)
	user, err := s.config.Directory.CreateUser(ctx, params)
	if errors.Is(err, errors.AlreadyExists) {
		logger.Infof("user %q already exists", params.UserPrincipalName)
		return s.config.Directory.GetUser(ctx, params.UserPrincipalName)
	}
	return user, errors.Trace(err)
}
