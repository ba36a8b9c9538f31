// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/juju/errors"

	"github.com/unicloud/uc-adapter-azure/internal/naming"
)

// TaggedResource is a resource carrying a group tag.
type TaggedResource struct {
	ID            string
	Name          string
	Type          string
	Service       string
	ResourceGroup string
	Location      string
}

// Finder lists the resources of a subscription.
type Finder struct {
	client *armresources.Client
}

// NewFinder returns a Finder using client.
func NewFinder(client *armresources.Client) (*Finder, error) {
	if client == nil {
		return nil, errors.NotValidf("nil resources client")
	}
	return &Finder{client: client}, nil
}

// FindByTag returns every resource in the subscription whose tag key has a
// value equal to value once both are normalised.
func (f *Finder) FindByTag(ctx context.Context, key, value string) ([]TaggedResource, error) {
	if key == "" {
		return nil, errors.NotValidf("empty tag key")
	}
	want := naming.NormalizeName(value)
	if want == "" {
		return nil, errors.NotValidf("empty tag value")
	}
	var found []TaggedResource
	pager := f.client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Annotate(err, "listing resources")
		}
		for _, res := range page.Value {
			if res == nil || res.ID == nil {
				continue
			}
			tag, ok := tagValue(res.Tags, key)
			if !ok || naming.NormalizeName(tag) != want {
				continue
			}
			found = append(found, taggedResource(res))
		}
	}
	logger.Debugf("found %d resources tagged %s=%s", len(found), key, want)
	return found, nil
}

// tagValue looks up key case-insensitively, as ARM tag names are.
func tagValue(tags map[string]*string, key string) (string, bool) {
	for k, v := range tags {
		if strings.EqualFold(k, key) && v != nil {
			return *v, true
		}
	}
	return "", false
}

func taggedResource(res *armresources.GenericResourceExpanded) TaggedResource {
	r := TaggedResource{
		ID:       *res.ID,
		Name:     stringValue(res.Name),
		Type:     stringValue(res.Type),
		Location: stringValue(res.Location),
	}
	r.Service = ServiceLabel(r.Type)
	if id, err := arm.ParseResourceID(r.ID); err == nil {
		r.ResourceGroup = id.ResourceGroupName
		if r.Name == "" {
			r.Name = id.Name
		}
	} else {
		logger.Warningf("cannot parse resource ID %q: %v", r.ID, err)
	}
	return r
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
