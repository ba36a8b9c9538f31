// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/naming"
)

// ResourceFinder finds the resources tagged for a group.
type ResourceFinder interface {
	FindByTag(ctx context.Context, key, value string) ([]TaggedResource, error)
}

// ResourceDeleter deletes a single resource.
type ResourceDeleter interface {
	Delete(ctx context.Context, r TaggedResource) error
}

// GroupDeleter deletes the resource group kept for a group.
type GroupDeleter interface {
	DeleteIfExists(ctx context.Context, group string) (bool, error)
}

// CleanerConfig holds the dependencies of a Cleaner.
type CleanerConfig struct {
	Finder         ResourceFinder
	Deleter        ResourceDeleter
	ResourceGroups GroupDeleter
	TagKey         string
}

// Validate checks the configuration is complete.
func (c CleanerConfig) Validate() error {
	if c.Finder == nil {
		return errors.NotValidf("nil Finder")
	}
	if c.Deleter == nil {
		return errors.NotValidf("nil Deleter")
	}
	if c.ResourceGroups == nil {
		return errors.NotValidf("nil ResourceGroups")
	}
	if c.TagKey == "" {
		return errors.NotValidf("empty TagKey")
	}
	return nil
}

// Cleaner removes every resource belonging to a group.
type Cleaner struct {
	config CleanerConfig
}

// NewCleaner returns a Cleaner.
func NewCleaner(config CleanerConfig) (*Cleaner, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Cleaner{config: config}, nil
}

// CleanupResult describes the outcome of a cleanup, one entry per
// resource.
type CleanupResult struct {
	Deleted []string
	Failed  []string
}

// Message summarises the result for group.
func (r CleanupResult) Message(group string) string {
	switch {
	case len(r.Deleted) == 0 && len(r.Failed) == 0:
		return fmt.Sprintf("No resources found for group '%s' (checked tags and resource group)", group)
	case len(r.Failed) == 0:
		return fmt.Sprintf("Cleanup completed for group '%s'. Deleted %d resource(s).", group, len(r.Deleted))
	}
	return fmt.Sprintf("Cleanup for group '%s' deleted %d resource(s), %d failed.",
		group, len(r.Deleted), len(r.Failed))
}

// CleanupGroup deletes the resources tagged for group, machines first and
// networks last. Failing to delete one resource does not stop the others.
// When no resource carries the tag, the group's resource group is deleted
// instead if it exists.
func (c *Cleaner) CleanupGroup(ctx context.Context, group string) (CleanupResult, error) {
	var result CleanupResult
	normalized := naming.NormalizeName(group)
	if normalized == "" {
		return result, errors.NotValidf("empty group name")
	}
	found, err := c.config.Finder.FindByTag(ctx, c.config.TagKey, normalized)
	if err != nil {
		return result, errors.Trace(err)
	}
	logger.Infof("found %d resources tagged %s=%s", len(found), c.config.TagKey, normalized)

	if len(found) == 0 {
		deleted, err := c.config.ResourceGroups.DeleteIfExists(ctx, normalized)
		if err != nil {
			logger.Warningf("deleting resource group for %s: %v", normalized, err)
			result.Failed = append(result.Failed, fmt.Sprintf("resource group %s: %v", naming.ResourceGroupName(normalized), err))
		} else if deleted {
			result.Deleted = append(result.Deleted, "Deleted resource group: "+naming.ResourceGroupName(normalized))
		}
		return result, nil
	}

	sort.SliceStable(found, func(i, j int) bool {
		return deletionRank(found[i].Type) < deletionRank(found[j].Type)
	})
	for _, r := range found {
		if err := ctx.Err(); err != nil {
			return result, errors.Annotatef(err, "cleanup of %s interrupted", normalized)
		}
		if err := c.config.Deleter.Delete(ctx, r); err != nil {
			logger.Errorf("deleting %s: %v", r.ID, err)
			result.Failed = append(result.Failed, fmt.Sprintf("%s (%s): %v", r.Name, r.Type, err))
			continue
		}
		result.Deleted = append(result.Deleted, fmt.Sprintf("Deleted %s: %s", r.Service, r.Name))
	}
	return result, nil
}

// Count returns how many resources tagged for group carry the service label
// resourceType.
func (c *Cleaner) Count(ctx context.Context, group, resourceType string) (int, error) {
	service := strings.ToLower(strings.TrimSpace(resourceType))
	if service == "" {
		return 0, errors.NotValidf("empty resource type")
	}
	found, err := c.config.Finder.FindByTag(ctx, c.config.TagKey, group)
	if err != nil {
		return 0, errors.Trace(err)
	}
	count := 0
	for _, r := range found {
		if r.Service == service {
			count++
		}
	}
	return count, nil
}
