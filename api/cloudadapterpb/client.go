// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudadapterpb

import (
	"context"

	"google.golang.org/grpc"
)

// CloudAdapterClient is the client side of the CloudAdapter service.
type CloudAdapterClient interface {
	GetStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	GroupExists(ctx context.Context, in *GroupExistsRequest, opts ...grpc.CallOption) (*GroupExistsResponse, error)
	CreateGroupWithLeaders(ctx context.Context, in *CreateGroupWithLeadersRequest, opts ...grpc.CallOption) (*GroupCreatedResponse, error)
	CreateUsersForGroup(ctx context.Context, in *CreateUsersForGroupRequest, opts ...grpc.CallOption) (*CreateUsersForGroupResponse, error)
	RemoveGroup(ctx context.Context, in *RemoveGroupRequest, opts ...grpc.CallOption) (*RemoveGroupResponse, error)
	AssignPolicies(ctx context.Context, in *AssignPoliciesRequest, opts ...grpc.CallOption) (*AssignPoliciesResponse, error)
	UpdateGroupLeaders(ctx context.Context, in *CreateGroupWithLeadersRequest, opts ...grpc.CallOption) (*GroupCreatedResponse, error)

	GetTotalCostForGroup(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error)
	GetTotalCostsForAllGroups(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*AllGroupsCostResponse, error)
	GetTotalCost(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error)
	GetGroupCostWithServiceBreakdown(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*GroupServiceBreakdownResponse, error)
	GetTotalCostWithServiceBreakdown(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*GroupServiceBreakdownResponse, error)
	GetGroupCostsLast6MonthsByService(ctx context.Context, in *GroupCostMapRequest, opts ...grpc.CallOption) (*GroupCostMapResponse, error)
	GetGroupMonthlyCostsLast6Months(ctx context.Context, in *GroupMonthlyCostsRequest, opts ...grpc.CallOption) (*GroupMonthlyCostsResponse, error)

	GetAvailableServices(ctx context.Context, in *GetAvailableServicesRequest, opts ...grpc.CallOption) (*GetAvailableServicesResponse, error)
	GetResourceCount(ctx context.Context, in *ResourceCountRequest, opts ...grpc.CallOption) (*ResourceCountResponse, error)
	CleanupGroupResources(ctx context.Context, in *CleanupGroupRequest, opts ...grpc.CallOption) (*CleanupGroupResponse, error)
}

type cloudAdapterClient struct {
	cc grpc.ClientConnInterface
}

// NewCloudAdapterClient returns a client using cc. Calls are made with the
// JSON codec.
func NewCloudAdapterClient(cc grpc.ClientConnInterface) CloudAdapterClient {
	RegisterCodec()
	return &cloudAdapterClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cloudAdapterClient) GetStatus(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, "GetStatus", in, opts)
}

func (c *cloudAdapterClient) GroupExists(ctx context.Context, in *GroupExistsRequest, opts ...grpc.CallOption) (*GroupExistsResponse, error) {
	return invoke[GroupExistsResponse](ctx, c.cc, "GroupExists", in, opts)
}

func (c *cloudAdapterClient) CreateGroupWithLeaders(ctx context.Context, in *CreateGroupWithLeadersRequest, opts ...grpc.CallOption) (*GroupCreatedResponse, error) {
	return invoke[GroupCreatedResponse](ctx, c.cc, "CreateGroupWithLeaders", in, opts)
}

func (c *cloudAdapterClient) CreateUsersForGroup(ctx context.Context, in *CreateUsersForGroupRequest, opts ...grpc.CallOption) (*CreateUsersForGroupResponse, error) {
	return invoke[CreateUsersForGroupResponse](ctx, c.cc, "CreateUsersForGroup", in, opts)
}

func (c *cloudAdapterClient) RemoveGroup(ctx context.Context, in *RemoveGroupRequest, opts ...grpc.CallOption) (*RemoveGroupResponse, error) {
	return invoke[RemoveGroupResponse](ctx, c.cc, "RemoveGroup", in, opts)
}

func (c *cloudAdapterClient) AssignPolicies(ctx context.Context, in *AssignPoliciesRequest, opts ...grpc.CallOption) (*AssignPoliciesResponse, error) {
	return invoke[AssignPoliciesResponse](ctx, c.cc, "AssignPolicies", in, opts)
}

func (c *cloudAdapterClient) UpdateGroupLeaders(ctx context.Context, in *CreateGroupWithLeadersRequest, opts ...grpc.CallOption) (*GroupCreatedResponse, error) {
	return invoke[GroupCreatedResponse](ctx, c.cc, "UpdateGroupLeaders", in, opts)
}

func (c *cloudAdapterClient) GetTotalCostForGroup(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error) {
	return invoke[CostResponse](ctx, c.cc, "GetTotalCostForGroup", in, opts)
}

func (c *cloudAdapterClient) GetTotalCostsForAllGroups(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*AllGroupsCostResponse, error) {
	return invoke[AllGroupsCostResponse](ctx, c.cc, "GetTotalCostsForAllGroups", in, opts)
}

func (c *cloudAdapterClient) GetTotalCost(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*CostResponse, error) {
	return invoke[CostResponse](ctx, c.cc, "GetTotalCost", in, opts)
}

func (c *cloudAdapterClient) GetGroupCostWithServiceBreakdown(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*GroupServiceBreakdownResponse, error) {
	return invoke[GroupServiceBreakdownResponse](ctx, c.cc, "GetGroupCostWithServiceBreakdown", in, opts)
}

func (c *cloudAdapterClient) GetTotalCostWithServiceBreakdown(ctx context.Context, in *CostRequest, opts ...grpc.CallOption) (*GroupServiceBreakdownResponse, error) {
	return invoke[GroupServiceBreakdownResponse](ctx, c.cc, "GetTotalCostWithServiceBreakdown", in, opts)
}

func (c *cloudAdapterClient) GetGroupCostsLast6MonthsByService(ctx context.Context, in *GroupCostMapRequest, opts ...grpc.CallOption) (*GroupCostMapResponse, error) {
	return invoke[GroupCostMapResponse](ctx, c.cc, "GetGroupCostsLast6MonthsByService", in, opts)
}

func (c *cloudAdapterClient) GetGroupMonthlyCostsLast6Months(ctx context.Context, in *GroupMonthlyCostsRequest, opts ...grpc.CallOption) (*GroupMonthlyCostsResponse, error) {
	return invoke[GroupMonthlyCostsResponse](ctx, c.cc, "GetGroupMonthlyCostsLast6Months", in, opts)
}

func (c *cloudAdapterClient) GetAvailableServices(ctx context.Context, in *GetAvailableServicesRequest, opts ...grpc.CallOption) (*GetAvailableServicesResponse, error) {
	return invoke[GetAvailableServicesResponse](ctx, c.cc, "GetAvailableServices", in, opts)
}

func (c *cloudAdapterClient) GetResourceCount(ctx context.Context, in *ResourceCountRequest, opts ...grpc.CallOption) (*ResourceCountResponse, error) {
	return invoke[ResourceCountResponse](ctx, c.cc, "GetResourceCount", in, opts)
}

func (c *cloudAdapterClient) CleanupGroupResources(ctx context.Context, in *CleanupGroupRequest, opts ...grpc.CallOption) (*CleanupGroupResponse, error) {
	return invoke[CleanupGroupResponse](ctx, c.cc, "CleanupGroupResources", in, opts)
}
