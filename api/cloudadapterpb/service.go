// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cloudadapterpb defines the wire messages and the gRPC service
// descriptor of the cloud adapter. Messages travel as JSON; see
// api/cloudadapter.proto for the schema.
package cloudadapterpb

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "cloudadapter.v1.CloudAdapter"

// CloudAdapterServer is implemented by the adapter.
type CloudAdapterServer interface {
	GetStatus(context.Context, *StatusRequest) (*StatusResponse, error)
	GroupExists(context.Context, *GroupExistsRequest) (*GroupExistsResponse, error)
	CreateGroupWithLeaders(context.Context, *CreateGroupWithLeadersRequest) (*GroupCreatedResponse, error)
	CreateUsersForGroup(context.Context, *CreateUsersForGroupRequest) (*CreateUsersForGroupResponse, error)
	RemoveGroup(context.Context, *RemoveGroupRequest) (*RemoveGroupResponse, error)
	AssignPolicies(context.Context, *AssignPoliciesRequest) (*AssignPoliciesResponse, error)
	UpdateGroupLeaders(context.Context, *CreateGroupWithLeadersRequest) (*GroupCreatedResponse, error)

	GetTotalCostForGroup(context.Context, *CostRequest) (*CostResponse, error)
	GetTotalCostsForAllGroups(context.Context, *CostRequest) (*AllGroupsCostResponse, error)
	GetTotalCost(context.Context, *CostRequest) (*CostResponse, error)
	GetGroupCostWithServiceBreakdown(context.Context, *CostRequest) (*GroupServiceBreakdownResponse, error)
	GetTotalCostWithServiceBreakdown(context.Context, *CostRequest) (*GroupServiceBreakdownResponse, error)
	GetGroupCostsLast6MonthsByService(context.Context, *GroupCostMapRequest) (*GroupCostMapResponse, error)
	GetGroupMonthlyCostsLast6Months(context.Context, *GroupMonthlyCostsRequest) (*GroupMonthlyCostsResponse, error)

	GetAvailableServices(context.Context, *GetAvailableServicesRequest) (*GetAvailableServicesResponse, error)
	GetResourceCount(context.Context, *ResourceCountRequest) (*ResourceCountResponse, error)
	CleanupGroupResources(context.Context, *CleanupGroupRequest) (*CleanupGroupResponse, error)
}

// RegisterCloudAdapterServer registers srv with the gRPC server and makes
// sure the JSON codec is available.
func RegisterCloudAdapterServer(registrar grpc.ServiceRegistrar, srv CloudAdapterServer) {
	RegisterCodec()
	registrar.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the full gRPC name of the given method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary returns the method handler for a unary method, decoding the
// request into a new Req and passing it to call through the interceptor.
func unary[Req any, Resp any](method string, call func(CloudAdapterServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CloudAdapterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CloudAdapterServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func method[Req any, Resp any](name string, call func(CloudAdapterServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{MethodName: name, Handler: unary(name, call)}
}

// ServiceDesc describes the CloudAdapter service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CloudAdapterServer)(nil),
	Methods: []grpc.MethodDesc{
		method("GetStatus", CloudAdapterServer.GetStatus),
		method("GroupExists", CloudAdapterServer.GroupExists),
		method("CreateGroupWithLeaders", CloudAdapterServer.CreateGroupWithLeaders),
		method("CreateUsersForGroup", CloudAdapterServer.CreateUsersForGroup),
		method("RemoveGroup", CloudAdapterServer.RemoveGroup),
		method("AssignPolicies", CloudAdapterServer.AssignPolicies),
		method("UpdateGroupLeaders", CloudAdapterServer.UpdateGroupLeaders),

		method("GetTotalCostForGroup", CloudAdapterServer.GetTotalCostForGroup),
		method("GetTotalCostsForAllGroups", CloudAdapterServer.GetTotalCostsForAllGroups),
		method("GetTotalCost", CloudAdapterServer.GetTotalCost),
		method("GetGroupCostWithServiceBreakdown", CloudAdapterServer.GetGroupCostWithServiceBreakdown),
		method("GetTotalCostWithServiceBreakdown", CloudAdapterServer.GetTotalCostWithServiceBreakdown),
		method("GetGroupCostsLast6MonthsByService", CloudAdapterServer.GetGroupCostsLast6MonthsByService),
		method("GetGroupMonthlyCostsLast6Months", CloudAdapterServer.GetGroupMonthlyCostsLast6Months),

		method("GetAvailableServices", CloudAdapterServer.GetAvailableServices),
		method("GetResourceCount", CloudAdapterServer.GetResourceCount),
		method("CleanupGroupResources", CloudAdapterServer.CleanupGroupResources),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/cloudadapter.proto",
}
