// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package identity_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/testing"

	"github.com/unicloud/uc-adapter-azure/internal/directory"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

// fakeDirectory is an in-memory directory. Failures are injected per
// method, optionally narrowed to the last argument: "CreateUser" or
// "AddMember user-3".
type fakeDirectory struct {
	testing.Stub

	failOn map[string]error

	groups  map[string]directory.Group
	users   map[string]directory.User
	members map[string][]string
	owners  map[string][]string
	nextID  int

	// groupMisses is the number of lookups that report a missing group
	// before it becomes visible.
	groupMisses int

	// memberMisses is the number of member listings that come back empty
	// before the members become visible.
	memberMisses int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		failOn:  make(map[string]error),
		groups:  make(map[string]directory.Group),
		users:   make(map[string]directory.User),
		members: make(map[string][]string),
		owners:  make(map[string][]string),
	}
}

func (f *fakeDirectory) call(name string, args ...interface{}) error {
	f.AddCall(name, args...)
	if len(args) > 0 {
		if err, ok := f.failOn[fmt.Sprintf("%s %v", name, args[len(args)-1])]; ok {
			return err
		}
	}
	return f.failOn[name]
}

func (f *fakeDirectory) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeDirectory) addGroup(name string) directory.Group {
	g := directory.Group{ID: f.id("group"), DisplayName: name}
	f.groups[name] = g
	return g
}

func (f *fakeDirectory) addUser(upn string) directory.User {
	u := directory.User{ID: f.id("user"), UserPrincipalName: upn}
	f.users[upn] = u
	return u
}

func (f *fakeDirectory) userByID(id string) (directory.User, bool) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return directory.User{}, false
}

func (f *fakeDirectory) usersByID(ids []string) []directory.User {
	var users []directory.User
	for _, id := range ids {
		if u, ok := f.userByID(id); ok {
			users = append(users, u)
		}
	}
	return users
}

func without(ids []string, id string) []string {
	var out []string
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeDirectory) GroupByName(ctx context.Context, name string) (directory.Group, error) {
	if err := f.call("GroupByName", name); err != nil {
		return directory.Group{}, err
	}
	if f.groupMisses > 0 {
		f.groupMisses--
		return directory.Group{}, errors.NotFoundf("group %q", name)
	}
	g, ok := f.groups[name]
	if !ok {
		return directory.Group{}, errors.NotFoundf("group %q", name)
	}
	return g, nil
}

func (f *fakeDirectory) GroupExists(ctx context.Context, name string) (bool, error) {
	if err := f.call("GroupExists", name); err != nil {
		return false, err
	}
	_, ok := f.groups[name]
	return ok, nil
}

func (f *fakeDirectory) CreateGroup(ctx context.Context, name, description string) (directory.Group, error) {
	if err := f.call("CreateGroup", name, description); err != nil {
		return directory.Group{}, err
	}
	return f.addGroup(name), nil
}

func (f *fakeDirectory) DeleteGroup(ctx context.Context, groupID string) error {
	if err := f.call("DeleteGroup", groupID); err != nil {
		return err
	}
	for name, g := range f.groups {
		if g.ID == groupID {
			delete(f.groups, name)
		}
	}
	return nil
}

func (f *fakeDirectory) AddMember(ctx context.Context, groupID, userID string) error {
	if err := f.call("AddMember", groupID, userID); err != nil {
		return err
	}
	f.members[groupID] = append(without(f.members[groupID], userID), userID)
	return nil
}

func (f *fakeDirectory) AddOwner(ctx context.Context, groupID, userID string) error {
	if err := f.call("AddOwner", groupID, userID); err != nil {
		return err
	}
	f.owners[groupID] = append(without(f.owners[groupID], userID), userID)
	return nil
}

func (f *fakeDirectory) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := f.call("RemoveMember", groupID, userID); err != nil {
		return err
	}
	f.members[groupID] = without(f.members[groupID], userID)
	return nil
}

func (f *fakeDirectory) RemoveOwner(ctx context.Context, groupID, userID string) error {
	if err := f.call("RemoveOwner", groupID, userID); err != nil {
		return err
	}
	f.owners[groupID] = without(f.owners[groupID], userID)
	return nil
}

func (f *fakeDirectory) ListUserMembers(ctx context.Context, groupID string) ([]directory.User, error) {
	if err := f.call("ListUserMembers", groupID); err != nil {
		return nil, err
	}
	if f.memberMisses > 0 {
		f.memberMisses--
		return nil, nil
	}
	return f.usersByID(f.members[groupID]), nil
}

func (f *fakeDirectory) ListOwners(ctx context.Context, groupID string) ([]directory.User, error) {
	if err := f.call("ListOwners", groupID); err != nil {
		return nil, err
	}
	return f.usersByID(f.owners[groupID]), nil
}

func (f *fakeDirectory) CreateUser(ctx context.Context, p directory.UserParams) (directory.User, error) {
	if err := f.call("CreateUser", p.UserPrincipalName); err != nil {
		return directory.User{}, err
	}
	if _, ok := f.users[p.UserPrincipalName]; ok {
		return directory.User{}, errors.AlreadyExistsf("user %q", p.UserPrincipalName)
	}
	return f.addUser(p.UserPrincipalName), nil
}

func (f *fakeDirectory) GetUser(ctx context.Context, idOrPrincipalName string) (directory.User, error) {
	if err := f.call("GetUser", idOrPrincipalName); err != nil {
		return directory.User{}, err
	}
	if u, ok := f.users[idOrPrincipalName]; ok {
		return u, nil
	}
	if u, ok := f.userByID(idOrPrincipalName); ok {
		return u, nil
	}
	return directory.User{}, errors.NotFoundf("user %q", idOrPrincipalName)
}

func (f *fakeDirectory) DeleteUser(ctx context.Context, userID string) error {
	if err := f.call("DeleteUser", userID); err != nil {
		return err
	}
	if u, ok := f.userByID(userID); ok {
		delete(f.users, u.UserPrincipalName)
	}
	return nil
}

func (f *fakeDirectory) FindUsersByPrincipalSuffix(ctx context.Context, suffix string) ([]directory.User, error) {
	if err := f.call("FindUsersByPrincipalSuffix", suffix); err != nil {
		return nil, err
	}
	var found []directory.User
	for upn, u := range f.users {
		if strings.HasSuffix(upn, suffix) {
			found = append(found, u)
		}
	}
	return found, nil
}

type fakeRoles struct {
	testing.Stub
	failOn map[string]error
}

func (f *fakeRoles) AssignRole(ctx context.Context, p rbac.AssignParams) (rbac.Assignment, error) {
	f.AddCall("AssignRole", p.ResourceType, p.PrincipalID, p.PrincipalType)
	if err := f.failOn[p.ResourceType]; err != nil {
		return rbac.Assignment{}, err
	}
	return rbac.Assignment{Name: "ra-" + p.ResourceType, Verified: true}, nil
}

func (f *fakeRoles) RemoveAssignments(ctx context.Context, principalID string, principalType rbac.PrincipalType, scope string) (int, error) {
	f.AddCall("RemoveAssignments", principalID, principalType)
	return 1, f.failOn["RemoveAssignments"]
}

type fakeCleaner struct {
	testing.Stub
	result resources.CleanupResult
}

func (f *fakeCleaner) CleanupGroup(ctx context.Context, group string) (resources.CleanupResult, error) {
	f.AddCall("CleanupGroup", group)
	return f.result, f.NextErr()
}

type fakeResourceGroups struct {
	testing.Stub
}

func (f *fakeResourceGroups) Ensure(ctx context.Context, group, location string) (string, error) {
	f.AddCall("Ensure", group, location)
	return "rg-" + group, f.NextErr()
}

type fakeLimits struct {
	testing.Stub
}

func (f *fakeLimits) EnsureUserLimit(ctx context.Context, more int) error {
	f.AddCall("EnsureUserLimit", more)
	return f.NextErr()
}

type fakeProber struct {
	testing.Stub
}

func (f *fakeProber) ProbeSubscription(ctx context.Context) error {
	f.AddCall("ProbeSubscription")
	return f.NextErr()
}
