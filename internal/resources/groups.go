// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/azure/errorutils"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
)

// ResourceGroups manages the resource group kept for each group.
type ResourceGroups struct {
	groups *armresources.ResourceGroupsClient
	tags   *armresources.TagsClient
	tagKey string
}

// NewResourceGroups returns a ResourceGroups tagging groups with tagKey.
func NewResourceGroups(
	groups *armresources.ResourceGroupsClient,
	tags *armresources.TagsClient,
	tagKey string,
) (*ResourceGroups, error) {
	if groups == nil {
		return nil, errors.NotValidf("nil resource groups client")
	}
	if tags == nil {
		return nil, errors.NotValidf("nil tags client")
	}
	if tagKey == "" {
		return nil, errors.NotValidf("empty tag key")
	}
	return &ResourceGroups{groups: groups, tags: tags, tagKey: tagKey}, nil
}

// Ensure creates the resource group for group in location, tagged with
// the group's name. An existing resource group is kept, and is re-tagged
// if the tag is missing. The resource group name is returned.
func (r *ResourceGroups) Ensure(ctx context.Context, group, location string) (string, error) {
	group = naming.NormalizeName(group)
	if group == "" {
		return "", errors.NotValidf("empty group name")
	}
	if location == "" {
		return "", errors.NotValidf("empty location")
	}
	name := naming.ResourceGroupName(group)
	existing, err := r.groups.Get(ctx, name, nil)
	switch {
	case err == nil:
		logger.Debugf("resource group %s already exists", name)
		if tag, ok := tagValue(existing.Tags, r.tagKey); ok && tag == group {
			return name, nil
		}
		if existing.ID == nil {
			return name, nil
		}
		return name, errors.Trace(r.EnsureTagged(ctx, *existing.ID, group))
	case !errorutils.IsNotFoundError(err):
		return "", errors.Annotatef(err, "getting resource group %s", name)
	}

	_, err = r.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
		Tags:     map[string]*string{r.tagKey: to.Ptr(group)},
	}, nil)
	if err != nil {
		return "", errors.Annotatef(err, "creating resource group %s", name)
	}
	logger.Infof("created resource group %s with tag %s=%s", name, r.tagKey, group)
	return name, nil
}

// EnsureTagged merges the group tag into the tags of the resource with the
// given ID, leaving its other tags alone.
func (r *ResourceGroups) EnsureTagged(ctx context.Context, resourceID, group string) error {
	if resourceID == "" {
		return errors.NotValidf("empty resource ID")
	}
	group = naming.NormalizeName(group)
	_, err := r.tags.UpdateAtScope(ctx, resourceID, armresources.TagsPatchResource{
		Operation: to.Ptr(armresources.TagsPatchOperationMerge),
		Properties: &armresources.Tags{
			Tags: map[string]*string{r.tagKey: to.Ptr(group)},
		},
	}, nil)
	if err != nil {
		return errors.Annotatef(err, "tagging %s", resourceID)
	}
	logger.Infof("tagged %s with %s=%s", resourceID, r.tagKey, group)
	return nil
}

// DeleteIfExists deletes the resource group for group and everything in
// it. It reports whether there was anything to delete.
func (r *ResourceGroups) DeleteIfExists(ctx context.Context, group string) (bool, error) {
	name := naming.ResourceGroupName(naming.NormalizeName(group))
	if _, err := r.groups.Get(ctx, name, nil); errorutils.IsNotFoundError(err) {
		logger.Debugf("resource group %s does not exist", name)
		return false, nil
	} else if err != nil {
		return false, errors.Annotatef(err, "getting resource group %s", name)
	}
	poller, err := r.groups.BeginDelete(ctx, name, nil)
	if err == nil {
		_, err = poller.PollUntilDone(ctx, nil)
	}
	if errorutils.IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Annotatef(err, "deleting resource group %s", name)
	}
	logger.Infof("deleted resource group %s", name)
	return true, nil
}
