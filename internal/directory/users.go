// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/juju/errors"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
	"github.com/unicloud/uc-adapter-azure/internal/replication"
)

func userFromModel(u models.Userable) User {
	return User{
		ID:                deref(u.GetId()),
		UserPrincipalName: deref(u.GetUserPrincipalName()),
		DisplayName:       deref(u.GetDisplayName()),
	}
}

// UserParams describes a user to create.
type UserParams struct {
	UserPrincipalName string
	DisplayName       string
	Password          string
}

// Validate checks the parameters are usable.
func (p UserParams) Validate() error {
	local, domain, ok := strings.Cut(p.UserPrincipalName, "@")
	if !ok || local == "" || domain == "" {
		return errors.NotValidf("user principal name %q", p.UserPrincipalName)
	}
	if p.Password == "" {
		return errors.NotValidf("empty password")
	}
	return nil
}

// CreateUser creates an enabled user who must change the initial password
// on first sign-in.
func (d *Directory) CreateUser(ctx context.Context, p UserParams) (User, error) {
	if err := p.Validate(); err != nil {
		return User{}, errors.Trace(err)
	}
	local, _, _ := strings.Cut(p.UserPrincipalName, "@")
	displayName := p.DisplayName
	if displayName == "" {
		displayName = local
	}
	password := models.NewPasswordProfile()
	password.SetPassword(to.Ptr(p.Password))
	password.SetForceChangePasswordNextSignIn(to.Ptr(true))

	body := models.NewUser()
	body.SetAccountEnabled(to.Ptr(true))
	body.SetDisplayName(to.Ptr(displayName))
	body.SetMailNickname(to.Ptr(local))
	body.SetUserPrincipalName(to.Ptr(p.UserPrincipalName))
	body.SetPasswordProfile(password)

	created, err := d.client.Users().Post(ctx, body, nil)
	if isObjectConflict(err) {
		return User{}, errors.NewAlreadyExists(err, fmt.Sprintf("user %q", p.UserPrincipalName))
	} else if err != nil {
		return User{}, errors.Annotatef(err, "creating user %q", p.UserPrincipalName)
	}
	user := userFromModel(created)
	if user.UserPrincipalName == "" {
		user.UserPrincipalName = p.UserPrincipalName
	}
	logger.Infof("created user %q (%s)", user.UserPrincipalName, user.ID)
	return user, nil
}

// isObjectConflict reports whether creating a directory object failed
// because one with the same unique property already exists.
func isObjectConflict(err error) bool {
	if err == nil {
		return false
	}
	return errorutils.IsConflictError(err) ||
		errorutils.ErrorCode(err) == "ObjectConflict" ||
		strings.Contains(strings.ToLower(errorutils.Message(err)), "already exists")
}

// GetUser returns the user with the given ID or principal name.
func (d *Directory) GetUser(ctx context.Context, idOrPrincipalName string) (User, error) {
	u, err := d.client.Users().ByUserId(idOrPrincipalName).Get(ctx, nil)
	if errorutils.IsNotFoundError(err) {
		return User{}, errors.NotFoundf("user %q", idOrPrincipalName)
	} else if err != nil {
		return User{}, errors.Annotatef(err, "getting user %q", idOrPrincipalName)
	}
	return userFromModel(u), nil
}

// DeleteUser deletes a user, retrying transient failures. A missing user is
// not an error.
func (d *Directory) DeleteUser(ctx context.Context, userID string) error {
	err := replication.Call(ctx, replication.CallArgs{
		Operation: "delete user " + userID,
		Policy:    replication.DeletePolicy,
		Clock:     d.clock,
		IsTransient: func(err error) bool {
			return errorutils.IsThrottledError(err) || errorutils.IsServerError(err)
		},
		Func: func(ctx context.Context) error {
			err := d.client.Users().ByUserId(userID).Delete(ctx, nil)
			if errorutils.IsNotFoundError(err) {
				logger.Debugf("user %s already deleted", userID)
				return nil
			}
			return err
		},
	})
	return errors.Annotatef(err, "deleting user %s", userID)
}

func eventualConsistency() *abstractions.RequestHeaders {
	headers := abstractions.NewRequestHeaders()
	headers.Add("ConsistencyLevel", "eventual")
	return headers
}

// FindUsersByPrincipalSuffix returns the users whose principal name ends
// with suffix, such as "-AI-2024L@uni.onmicrosoft.com".
func (d *Directory) FindUsersByPrincipalSuffix(ctx context.Context, suffix string) ([]User, error) {
	if suffix == "" {
		return nil, errors.NotValidf("empty suffix")
	}
	filter := fmt.Sprintf("endswith(userPrincipalName,'%s')", strings.ReplaceAll(suffix, "'", "''"))
	builder := d.client.Users()
	resp, err := builder.Get(ctx, &users.UsersRequestBuilderGetRequestConfiguration{
		Headers: eventualConsistency(),
		QueryParameters: &users.UsersRequestBuilderGetQueryParameters{
			Filter: to.Ptr(filter),
			Count:  to.Ptr(true),
			Select: []string{"id", "userPrincipalName", "displayName"},
		},
	})
	var found []User
	for {
		if err != nil {
			return nil, errors.Annotatef(err, "searching users ending with %q", suffix)
		}
		for _, u := range resp.GetValue() {
			found = append(found, userFromModel(u))
		}
		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		resp, err = builder.WithUrl(*next).Get(ctx, nil)
	}
	return found, nil
}

// CountUsers returns the number of users in the directory.
func (d *Directory) CountUsers(ctx context.Context) (int, error) {
	count, err := d.client.Users().Count().Get(ctx, &users.CountRequestBuilderGetRequestConfiguration{
		Headers: eventualConsistency(),
	})
	if err != nil {
		return 0, errors.Annotate(err, "counting users")
	}
	if count == nil {
		return 0, nil
	}
	return int(*count), nil
}
