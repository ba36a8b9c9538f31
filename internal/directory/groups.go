// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/juju/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/groups"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/replication"
)

func groupFromModel(g models.Groupable) Group {
	return Group{ID: deref(g.GetId()), DisplayName: deref(g.GetDisplayName())}
}

// CreateGroup creates a security group. name is normalised first.
func (d *Directory) CreateGroup(ctx context.Context, name, description string) (Group, error) {
	normalized := naming.NormalizeName(name)
	if normalized == "" {
		return Group{}, errors.NotValidf("empty group name")
	}
	body := models.NewGroup()
	body.SetDisplayName(to.Ptr(normalized))
	body.SetMailEnabled(to.Ptr(false))
	body.SetMailNickname(to.Ptr(naming.MailNickname(normalized)))
	body.SetSecurityEnabled(to.Ptr(true))
	if description != "" {
		body.SetDescription(to.Ptr(description))
	}
	created, err := d.client.Groups().Post(ctx, body, nil)
	if err != nil {
		return Group{}, errors.Annotatef(err, "creating group %q", normalized)
	}
	group := groupFromModel(created)
	logger.Infof("created group %q (%s)", group.DisplayName, group.ID)
	return group, nil
}

// DeleteGroup deletes a group. A missing group is not an error.
func (d *Directory) DeleteGroup(ctx context.Context, groupID string) error {
	err := d.client.Groups().ByGroupId(groupID).Delete(ctx, nil)
	if err != nil && !errorutils.IsNotFoundError(err) {
		return errors.Annotatef(err, "deleting group %s", groupID)
	}
	return nil
}

// GroupByName returns the single group whose display name equals the
// normalised form of name.
func (d *Directory) GroupByName(ctx context.Context, name string) (Group, error) {
	normalized := naming.NormalizeName(name)
	if normalized == "" {
		return Group{}, errors.NotValidf("empty group name")
	}
	filter := fmt.Sprintf("displayName eq '%s'", strings.ReplaceAll(normalized, "'", "''"))
	resp, err := d.client.Groups().Get(ctx, &groups.GroupsRequestBuilderGetRequestConfiguration{
		QueryParameters: &groups.GroupsRequestBuilderGetQueryParameters{
			Filter: to.Ptr(filter),
			Select: []string{"id", "displayName"},
		},
	})
	if err != nil {
		return Group{}, errors.Annotatef(err, "looking up group %q", normalized)
	}
	found := resp.GetValue()
	switch len(found) {
	case 0:
		return Group{}, errors.NotFoundf("group %q", normalized)
	case 1:
		return groupFromModel(found[0]), nil
	}
	return Group{}, errors.Errorf("%d groups named %q", len(found), normalized)
}

// GroupExists reports whether a group with the normalised form of name
// exists.
func (d *Directory) GroupExists(ctx context.Context, name string) (bool, error) {
	_, err := d.GroupByName(ctx, name)
	if errors.Is(err, errors.NotFound) {
		return false, nil
	} else if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

func reference(objectID string) models.ReferenceCreateable {
	ref := models.NewReferenceCreate()
	ref.SetOdataId(to.Ptr(directoryObjectURL + objectID))
	return ref
}

// AddMember adds a user to a group, retrying while either object is still
// replicating.
func (d *Directory) AddMember(ctx context.Context, groupID, userID string) error {
	return d.addReference(ctx, "add member", groupID, userID, func(ctx context.Context) error {
		return d.client.Groups().ByGroupId(groupID).Members().Ref().Post(ctx, reference(userID), nil)
	})
}

// AddOwner makes a user an owner of a group, retrying while either object
// is still replicating.
func (d *Directory) AddOwner(ctx context.Context, groupID, userID string) error {
	return d.addReference(ctx, "add owner", groupID, userID, func(ctx context.Context) error {
		return d.client.Groups().ByGroupId(groupID).Owners().Ref().Post(ctx, reference(userID), nil)
	})
}

func (d *Directory) addReference(ctx context.Context, op, groupID, userID string, post func(context.Context) error) error {
	attempt := 0
	err := replication.Call(ctx, replication.CallArgs{
		Operation:   fmt.Sprintf("%s %s to group %s", op, userID, groupID),
		Policy:      replication.MembershipPolicy,
		Clock:       d.clock,
		IsTransient: errorutils.IsTransientError,
		Func: func(ctx context.Context) error {
			attempt++
			err := post(ctx)
			if isAlreadyReferenced(err) {
				logger.Debugf("%s: %s already in group %s", op, userID, groupID)
				return nil
			}
			return err
		},
	})
	if err != nil {
		return errors.Trace(err)
	}
	if attempt > 1 {
		logger.Infof("%s: %s added to group %s after %d attempts", op, userID, groupID, attempt)
	}
	return nil
}

// isAlreadyReferenced reports whether adding a reference failed because it
// already exists.
func isAlreadyReferenced(err error) bool {
	if err == nil {
		return false
	}
	return errorutils.StatusCode(err) == 400 &&
		strings.Contains(errorutils.Message(err), "already exist")
}

// RemoveMember removes a user from a group. A missing membership is not an
// error.
func (d *Directory) RemoveMember(ctx context.Context, groupID, userID string) error {
	err := d.client.Groups().ByGroupId(groupID).Members().ByDirectoryObjectId(userID).Ref().Delete(ctx, nil)
	if err != nil && !errorutils.IsNotFoundError(err) {
		return errors.Annotatef(err, "removing member %s from group %s", userID, groupID)
	}
	return nil
}

// RemoveOwner removes an owner from a group. A missing ownership is not an
// error.
func (d *Directory) RemoveOwner(ctx context.Context, groupID, userID string) error {
	err := d.client.Groups().ByGroupId(groupID).Owners().ByDirectoryObjectId(userID).Ref().Delete(ctx, nil)
	if err != nil && !errorutils.IsNotFoundError(err) {
		return errors.Annotatef(err, "removing owner %s from group %s", userID, groupID)
	}
	return nil
}

// ListUserMembers returns the users that are members of a group, following
// every result page.
func (d *Directory) ListUserMembers(ctx context.Context, groupID string) ([]User, error) {
	builder := d.client.Groups().ByGroupId(groupID).Members().GraphUser()
	resp, err := builder.Get(ctx, nil)
	var users []User
	for {
		if err != nil {
			return nil, errors.Annotatef(err, "listing members of group %s", groupID)
		}
		for _, u := range resp.GetValue() {
			users = append(users, userFromModel(u))
		}
		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		logger.Debugf("group %s has more members, fetching next page", groupID)
		resp, err = builder.WithUrl(*next).Get(ctx, nil)
	}
	logger.Debugf("group %s has %d user members", groupID, len(users))
	return users, nil
}

// ListOwners returns the users owning a group.
func (d *Directory) ListOwners(ctx context.Context, groupID string) ([]User, error) {
	builder := d.client.Groups().ByGroupId(groupID).Owners().GraphUser()
	resp, err := builder.Get(ctx, nil)
	var owners []User
	for {
		if err != nil {
			return nil, errors.Annotatef(err, "listing owners of group %s", groupID)
		}
		for _, u := range resp.GetValue() {
			owners = append(owners, userFromModel(u))
		}
		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		resp, err = builder.WithUrl(*next).Get(ctx, nil)
	}
	return owners, nil
}
