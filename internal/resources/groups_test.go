// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resources_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/unicloud/uc-adapter-azure/internal/azure/azuretesting"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

type groupsSuite struct {
	senders azuretesting.Senders
	groups  *resources.ResourceGroups
}

var _ = gc.Suite(&groupsSuite{})

func (s *groupsSuite) SetUpTest(c *gc.C) {
	s.senders = nil
	cred := &azuretesting.FakeCredential{}
	opts := azuretesting.ClientOptions(&s.senders)
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, opts)
	c.Assert(err, jc.ErrorIsNil)
	tags, err := armresources.NewTagsClient(subscriptionID, cred, opts)
	c.Assert(err, jc.ErrorIsNil)
	s.groups, err = resources.NewResourceGroups(groups, tags, "Group")
	c.Assert(err, jc.ErrorIsNil)
}

func resourceGroup(name string, tags map[string]*string) armresources.ResourceGroup {
	return armresources.ResourceGroup{
		ID:       to.Ptr(rgPrefix + name),
		Name:     to.Ptr(name),
		Location: to.Ptr("westeurope"),
		Tags:     tags,
	}
}

func requestBody(c *gc.C, req *http.Request) map[string]interface{} {
	c.Assert(req.Body, gc.NotNil)
	data, err := io.ReadAll(req.Body)
	c.Assert(err, jc.ErrorIsNil)
	var body map[string]interface{}
	c.Assert(json.Unmarshal(data, &body), jc.ErrorIsNil)
	return body
}

func (s *groupsSuite) TestEnsureCreates(c *gc.C) {
	get := azuretesting.NewSenderWithError(http.StatusNotFound, "ResourceGroupNotFound")
	create := azuretesting.NewSenderWithValue(resourceGroup("rg-AI-2024L", map[string]*string{"Group": to.Ptr("AI-2024L")}))
	create.PathPattern = ".*/resourcegroups/rg-AI-2024L"
	s.senders = azuretesting.Senders{get, create}

	name, err := s.groups.Ensure(context.Background(), "AI 2024L", "westeurope")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(name, gc.Equals, "rg-AI-2024L")
	c.Assert(create.Requests, gc.HasLen, 1)
	c.Assert(create.Requests[0].Method, gc.Equals, http.MethodPut)
	body := requestBody(c, create.Requests[0])
	c.Assert(body["location"], gc.Equals, "westeurope")
	c.Assert(body["tags"], jc.DeepEquals, map[string]interface{}{"Group": "AI-2024L"})
}

func (s *groupsSuite) TestEnsureExistingTagged(c *gc.C) {
	get := azuretesting.NewSenderWithValue(resourceGroup("rg-AI", map[string]*string{"group": to.Ptr("AI")}))
	s.senders = azuretesting.Senders{get}
	name, err := s.groups.Ensure(context.Background(), "AI", "westeurope")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(name, gc.Equals, "rg-AI")
	c.Assert(get.Requests, gc.HasLen, 1)
}

func (s *groupsSuite) TestEnsureExistingUntaggedIsTagged(c *gc.C) {
	get := azuretesting.NewSenderWithValue(resourceGroup("rg-AI", map[string]*string{"owner": to.Ptr("ops")}))
	patch := azuretesting.NewSenderWithValue(armresources.TagsResource{
		Properties: &armresources.Tags{Tags: map[string]*string{"Group": to.Ptr("AI")}},
	})
	patch.PathPattern = ".*/resourceGroups/rg-AI/providers/Microsoft.Resources/tags/default"
	s.senders = azuretesting.Senders{get, patch}

	_, err := s.groups.Ensure(context.Background(), "AI", "westeurope")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(patch.Requests, gc.HasLen, 1)
	c.Assert(patch.Requests[0].Method, gc.Equals, http.MethodPatch)
	body := requestBody(c, patch.Requests[0])
	c.Assert(body["operation"], gc.Equals, "Merge")
}

func (s *groupsSuite) TestEnsureValidates(c *gc.C) {
	_, err := s.groups.Ensure(context.Background(), " ", "westeurope")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	_, err = s.groups.Ensure(context.Background(), "AI", "")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (s *groupsSuite) TestDeleteIfExistsMissing(c *gc.C) {
	s.senders = azuretesting.Senders{azuretesting.NewSenderWithError(http.StatusNotFound, "ResourceGroupNotFound")}
	deleted, err := s.groups.DeleteIfExists(context.Background(), "AI")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(deleted, jc.IsFalse)
}

func (s *groupsSuite) TestDeleteIfExists(c *gc.C) {
	get := azuretesting.NewSenderWithValue(resourceGroup("rg-AI", nil))
	del := okSender(".*/resourcegroups/rg-AI")
	s.senders = azuretesting.Senders{get, del}
	deleted, err := s.groups.DeleteIfExists(context.Background(), "AI")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(deleted, jc.IsTrue)
	c.Assert(del.Requests[0].Method, gc.Equals, http.MethodDelete)
}

func (s *groupsSuite) TestEnsureTaggedMerges(c *gc.C) {
	const vmID = "/subscriptions/" + subscriptionID + "/resourceGroups/rg-AI/providers/Microsoft.Compute/virtualMachines/vm1"
	patch := azuretesting.NewSenderWithValue(armresources.TagsResource{
		Properties: &armresources.Tags{Tags: map[string]*string{"Group": to.Ptr("AI-2024L")}},
	})
	s.senders = azuretesting.Senders{patch}

	err := s.groups.EnsureTagged(context.Background(), vmID, "AI 2024L")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(patch.Requests, gc.HasLen, 1)
	c.Assert(patch.Requests[0].Method, gc.Equals, http.MethodPatch)
	body := requestBody(c, patch.Requests[0])
	c.Assert(body["operation"], gc.Equals, "Merge")
	c.Assert(body["properties"], jc.DeepEquals, map[string]interface{}{
		"tags": map[string]interface{}{"Group": "AI-2024L"},
	})
}

func (s *groupsSuite) TestEnsureTaggedEmptyID(c *gc.C) {
	err := s.groups.EnsureTagged(context.Background(), "", "AI")
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}
