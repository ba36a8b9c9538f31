// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudadapterpb

// StatusRequest is the argument to GetStatus.
type StatusRequest struct{}

// StatusResponse reports whether the adapter can reach the cloud.
type StatusResponse struct {
	IsHealthy bool `json:"isHealthy"`
}

// GroupExistsRequest names the group to look for.
type GroupExistsRequest struct {
	GroupName string `json:"groupName"`
}

// GroupExistsResponse is the result of GroupExists.
type GroupExistsResponse struct {
	Exists bool `json:"exists"`
}

// CreateGroupWithLeadersRequest is the argument to CreateGroupWithLeaders
// and UpdateGroupLeaders.
type CreateGroupWithLeadersRequest struct {
	GroupName     string   `json:"groupName"`
	ResourceTypes []string `json:"resourceTypes,omitempty"`
	Leaders       []string `json:"leaders,omitempty"`
}

// PolicyOutcome is the result of granting one resource type's role.
type PolicyOutcome struct {
	ResourceType string `json:"resourceType"`
	Principal    string `json:"principal"`
	Assigned     bool   `json:"assigned"`
	Reason       string `json:"reason,omitempty"`
}

// UserFailure names a user that could not be processed.
type UserFailure struct {
	Login  string `json:"login"`
	Reason string `json:"reason"`
}

// GroupCreatedResponse is the result of CreateGroupWithLeaders and
// UpdateGroupLeaders. GroupName echoes the name in the request.
type GroupCreatedResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	GroupName      string          `json:"groupName"`
	ResourceGroup  string          `json:"resourceGroup,omitempty"`
	Leaders        []string        `json:"leaders,omitempty"`
	AddedLeaders   []string        `json:"addedLeaders,omitempty"`
	RemovedLeaders []string        `json:"removedLeaders,omitempty"`
	FailedLeaders  []UserFailure   `json:"failedLeaders,omitempty"`
	Policies       []PolicyOutcome `json:"policies,omitempty"`
}

// CreateUsersForGroupRequest lists the logins to create in a group.
type CreateUsersForGroupRequest struct {
	GroupName string   `json:"groupName"`
	Users     []string `json:"users"`
}

// CreateUsersForGroupResponse reports the outcome for every login.
type CreateUsersForGroupResponse struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	AddedUsers     []string      `json:"addedUsers,omitempty"`
	AlreadyMembers []string      `json:"alreadyMembers,omitempty"`
	FailedUsers    []UserFailure `json:"failedUsers,omitempty"`
}

// RemoveGroupRequest names the group to tear down.
type RemoveGroupRequest struct {
	GroupName string `json:"groupName"`
}

// RemoveGroupResponse reports the users and resources removed.
type RemoveGroupResponse struct {
	Success          bool          `json:"success"`
	RemovedUsers     []string      `json:"removedUsers"`
	FailedUsers      []UserFailure `json:"failedUsers,omitempty"`
	DeletedResources []string      `json:"deletedResources,omitempty"`
	FailedResources  []string      `json:"failedResources,omitempty"`
	Message          string        `json:"message"`
}

// AssignPoliciesRequest is the argument to AssignPolicies.
type AssignPoliciesRequest struct {
	ResourceTypes []string `json:"resourceTypes"`
	GroupName     string   `json:"groupName,omitempty"`
	UserName      string   `json:"userName,omitempty"`
}

// AssignPoliciesResponse reports the outcome for every resource type.
type AssignPoliciesResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Outcomes []PolicyOutcome `json:"outcomes,omitempty"`
}

// CostRequest selects an inclusive date range, and a group for the
// group-scoped cost methods. Dates are YYYY-MM-DD; an empty end date means
// today.
type CostRequest struct {
	GroupName string `json:"groupName,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// CostResponse holds a single total.
type CostResponse struct {
	Amount float64 `json:"amount"`
}

// GroupCost is the cost of one group.
type GroupCost struct {
	GroupName string  `json:"groupName"`
	Amount    float64 `json:"amount"`
}

// AllGroupsCostResponse lists the cost of every tagged group.
type AllGroupsCostResponse struct {
	GroupCosts []GroupCost `json:"groupCosts"`
}

// ServiceCost is the cost of one service label.
type ServiceCost struct {
	ServiceName string  `json:"serviceName"`
	Amount      float64 `json:"amount"`
}

// GroupServiceBreakdownResponse splits a total by service label.
type GroupServiceBreakdownResponse struct {
	Total     float64       `json:"total"`
	Breakdown []ServiceCost `json:"breakdown"`
}

// GroupCostMapRequest names the group for the six-month service map.
type GroupCostMapRequest struct {
	GroupName string `json:"groupName"`
}

// GroupCostMapResponse maps service labels to cost.
type GroupCostMapResponse struct {
	Costs map[string]float64 `json:"costs"`
}

// GroupMonthlyCostsRequest names the group for the monthly series.
type GroupMonthlyCostsRequest struct {
	GroupName string `json:"groupName"`
}

// GroupMonthlyCostsResponse maps YYYY-MM keys to cost.
type GroupMonthlyCostsResponse struct {
	MonthCosts map[string]float64 `json:"monthCosts"`
}

// GetAvailableServicesRequest is the argument to GetAvailableServices.
type GetAvailableServicesRequest struct{}

// GetAvailableServicesResponse lists the resource types roles exist for.
type GetAvailableServicesResponse struct {
	Services []string `json:"services"`
}

// ResourceCountRequest selects a group and a service label.
type ResourceCountRequest struct {
	GroupName    string `json:"groupName"`
	ResourceType string `json:"resourceType"`
}

// ResourceCountResponse holds the number of matching resources.
type ResourceCountResponse struct {
	Count int32 `json:"count"`
}

// CleanupGroupRequest names the group whose resources are deleted.
type CleanupGroupRequest struct {
	GroupName string `json:"groupName"`
}

// CleanupGroupResponse reports the resources deleted.
type CleanupGroupResponse struct {
	Success          bool     `json:"success"`
	DeletedResources []string `json:"deletedResources"`
	FailedResources  []string `json:"failedResources,omitempty"`
	Message          string   `json:"message"`
}
