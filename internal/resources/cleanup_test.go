// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources_test

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

type fakeFinder struct {
	testing.Stub
	found []resources.TaggedResource
}

func (f *fakeFinder) FindByTag(ctx context.Context, key, value string) ([]resources.TaggedResource, error) {
	f.AddCall("FindByTag", key, value)
	return f.found, f.NextErr()
}

type fakeDeleter struct {
	testing.Stub
}

func (f *fakeDeleter) Delete(ctx context.Context, r resources.TaggedResource) error {
	f.AddCall("Delete", r.Name)
	return f.NextErr()
}

type fakeResourceGroups struct {
	testing.Stub
	exists bool
}

func (f *fakeResourceGroups) DeleteIfExists(ctx context.Context, group string) (bool, error) {
	f.AddCall("DeleteIfExists", group)
	return f.exists, f.NextErr()
}

type cleanupSuite struct {
	finder  *fakeFinder
	deleter *fakeDeleter
	groups  *fakeResourceGroups
	cleaner *resources.Cleaner
}

var _ = gc.Suite(&cleanupSuite{})

func (s *cleanupSuite) SetUpTest(c *gc.C) {
	s.finder = &fakeFinder{}
	s.deleter = &fakeDeleter{}
	s.groups = &fakeResourceGroups{}
	var err error
	s.cleaner, err = resources.NewCleaner(resources.CleanerConfig{
		Finder:         s.finder,
		Deleter:        s.deleter,
		ResourceGroups: s.groups,
		TagKey:         "Group",
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *cleanupSuite) TestNewCleanerValidates(c *gc.C) {
	_, err := resources.NewCleaner(resources.CleanerConfig{Finder: s.finder, Deleter: s.deleter})
	c.Assert(err, gc.ErrorMatches, "nil ResourceGroups not valid")
}

func (s *cleanupSuite) TestCleanupDeletesInDependencyOrder(c *gc.C) {
	s.finder.found = []resources.TaggedResource{
		tagged(resources.TypeVirtualNetwork, "vnet"),
		tagged(resources.TypeStorageAccount, "st1"),
		tagged(resources.TypePublicIPAddress, "pip"),
		tagged(resources.TypeNetworkInterface, "nic"),
		tagged(resources.TypeVirtualMachine, "vm"),
		tagged(resources.TypeNetworkSecurityGroup, "nsg"),
	}
	result, err := s.cleaner.CleanupGroup(context.Background(), "AI 2024L")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result.Failed, gc.HasLen, 0)
	c.Assert(result.Deleted, gc.HasLen, 6)

	s.finder.CheckCall(c, 0, "FindByTag", "Group", "AI-2024L")
	var order []string
	for _, call := range s.deleter.Calls() {
		order = append(order, call.Args[0].(string))
	}
	c.Assert(order, jc.DeepEquals, []string{"vm", "nic", "pip", "nsg", "vnet", "st1"})
	s.groups.CheckNoCalls(c)
}

func (s *cleanupSuite) TestCleanupContinuesPastFailures(c *gc.C) {
	s.finder.found = []resources.TaggedResource{
		tagged(resources.TypeVirtualMachine, "vm-1"),
		tagged(resources.TypeVirtualMachine, "vm-2"),
		tagged(resources.TypeStorageAccount, "st1"),
	}
	s.deleter.SetErrors(nil, errors.New("boom"))
	result, err := s.cleaner.CleanupGroup(context.Background(), "AI-2024L")
	c.Assert(err, jc.ErrorIsNil)
	s.deleter.CheckCallNames(c, "Delete", "Delete", "Delete")
	c.Assert(result.Deleted, jc.DeepEquals, []string{"Deleted vm: vm-1", "Deleted storage: st1"})
	c.Assert(result.Failed, gc.HasLen, 1)
	c.Assert(result.Failed[0], gc.Matches, "vm-2 .*boom")
	c.Assert(result.Message("AI-2024L"), gc.Equals, "Cleanup for group 'AI-2024L' deleted 2 resource(s), 1 failed.")
}

func (s *cleanupSuite) TestCleanupFallsBackToResourceGroup(c *gc.C) {
	s.groups.exists = true
	result, err := s.cleaner.CleanupGroup(context.Background(), "AI 2024L")
	c.Assert(err, jc.ErrorIsNil)
	s.groups.CheckCall(c, 0, "DeleteIfExists", "AI-2024L")
	c.Assert(result.Deleted, jc.DeepEquals, []string{"Deleted resource group: rg-AI-2024L"})
	s.deleter.CheckNoCalls(c)
}

func (s *cleanupSuite) TestCleanupNothingFound(c *gc.C) {
	result, err := s.cleaner.CleanupGroup(context.Background(), "AI")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(result.Deleted, gc.HasLen, 0)
	c.Assert(result.Failed, gc.HasLen, 0)
	c.Assert(result.Message("AI"), gc.Equals, "No resources found for group 'AI' (checked tags and resource group)")
}

func (s *cleanupSuite) TestCleanupFindError(c *gc.C) {
	s.finder.SetErrors(errors.New("listing resources: forbidden"))
	_, err := s.cleaner.CleanupGroup(context.Background(), "AI")
	c.Assert(err, gc.ErrorMatches, "listing resources: forbidden")
	s.groups.CheckNoCalls(c)
}

func (s *cleanupSuite) TestCount(c *gc.C) {
	s.finder.found = []resources.TaggedResource{
		tagged(resources.TypeVirtualMachine, "vm-1"),
		tagged(resources.TypeVirtualMachine, "vm-2"),
		tagged(resources.TypeStorageAccount, "st1"),
	}
	n, err := s.cleaner.Count(context.Background(), "AI", " VM ")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(n, gc.Equals, 2)

	n, err = s.cleaner.Count(context.Background(), "AI", "database")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(n, gc.Equals, 0)
}

func (s *cleanupSuite) TestCountEmptyType(c *gc.C) {
	_, err := s.cleaner.Count(context.Background(), "AI", " ")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	s.finder.CheckNoCalls(c)
}
