// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package server exposes the identity, cost and resource operations over
// gRPC.
package server

import (
	"context"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	pb "github.com/unicloud/uc-adapter-azure/api/cloudadapterpb"
	"github.com/unicloud/uc-adapter-azure/internal/cost"
	"github.com/unicloud/uc-adapter-azure/internal/identity"
	"github.com/unicloud/uc-adapter-azure/internal/naming"
	"github.com/unicloud/uc-adapter-azure/internal/rbac"
	"github.com/unicloud/uc-adapter-azure/internal/resources"
)

var logger = loggo.GetLogger("uc.adapter.server")

// IdentityService manages groups, their users and their roles.
type IdentityService interface {
	Status(ctx context.Context) bool
	GroupExists(ctx context.Context, name string) (bool, error)
	CreateGroupWithLeaders(ctx context.Context, p identity.CreateGroupParams) (identity.CreateGroupResult, error)
	CreateUsersForGroup(ctx context.Context, name string, logins []string) (identity.CreateUsersResult, error)
	RemoveGroup(ctx context.Context, name string) (identity.RemoveGroupResult, error)
	AssignPolicies(ctx context.Context, p identity.AssignPoliciesParams) (identity.AssignPoliciesResult, error)
	UpdateGroupLeaders(ctx context.Context, p identity.CreateGroupParams) (identity.LeadersResult, error)
}

// CostService reports costs.
type CostService interface {
	GroupTotal(ctx context.Context, group, start, end string) (float64, error)
	AllGroupTotals(ctx context.Context, start, end string) (map[string]float64, error)
	SubscriptionTotal(ctx context.Context, start, end string) (float64, error)
	GroupServiceBreakdown(ctx context.Context, group, start, end string) (cost.Breakdown, error)
	SubscriptionServiceBreakdown(ctx context.Context, start, end string) (cost.Breakdown, error)
	GroupLastSixMonthsByService(ctx context.Context, group string) (map[string]float64, error)
	GroupMonthlyLastSixMonths(ctx context.Context, group string) (map[string]float64, error)
}

// ResourceService counts and deletes the resources of a group.
type ResourceService interface {
	CleanupGroup(ctx context.Context, group string) (resources.CleanupResult, error)
	Count(ctx context.Context, group, resourceType string) (int, error)
}

// Config holds the services behind a Server.
type Config struct {
	Identity  IdentityService
	Costs     CostService
	Resources ResourceService
}

// Validate checks the configuration is complete.
func (c Config) Validate() error {
	if c.Identity == nil {
		return errors.NotValidf("nil Identity")
	}
	if c.Costs == nil {
		return errors.NotValidf("nil Costs")
	}
	if c.Resources == nil {
		return errors.NotValidf("nil Resources")
	}
	return nil
}

// Server implements pb.CloudAdapterServer. Handlers translate requests
// into service calls and errors into gRPC status codes.
type Server struct {
	config Config
}

var _ pb.CloudAdapterServer = (*Server)(nil)

// New returns a Server.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Server{config: cfg}, nil
}

// GetStatus is part of pb.CloudAdapterServer.
func (s *Server) GetStatus(ctx context.Context, _ *pb.StatusRequest) (*pb.StatusResponse, error) {
	return &pb.StatusResponse{IsHealthy: s.config.Identity.Status(ctx)}, nil
}

// GroupExists is part of pb.CloudAdapterServer.
func (s *Server) GroupExists(ctx context.Context, req *pb.GroupExistsRequest) (*pb.GroupExistsResponse, error) {
	exists, err := s.config.Identity.GroupExists(ctx, req.GroupName)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GroupExistsResponse{Exists: exists}, nil
}

// CreateGroupWithLeaders is part of pb.CloudAdapterServer.
func (s *Server) CreateGroupWithLeaders(ctx context.Context, req *pb.CreateGroupWithLeadersRequest) (*pb.GroupCreatedResponse, error) {
	result, err := s.config.Identity.CreateGroupWithLeaders(ctx, groupParams(req))
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GroupCreatedResponse{
		Success:       result.Success(),
		Message:       result.Message(),
		GroupName:     result.GroupName,
		ResourceGroup: result.ResourceGroup,
		Leaders:       result.Leaders,
		Policies:      policyOutcomes(result.Policies),
	}, nil
}

// CreateUsersForGroup is part of pb.CloudAdapterServer.
func (s *Server) CreateUsersForGroup(ctx context.Context, req *pb.CreateUsersForGroupRequest) (*pb.CreateUsersForGroupResponse, error) {
	result, err := s.config.Identity.CreateUsersForGroup(ctx, req.GroupName, req.Users)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.CreateUsersForGroupResponse{
		Success:        result.Success(),
		Message:        result.Message(),
		AddedUsers:     result.Added,
		AlreadyMembers: result.AlreadyMembers,
		FailedUsers:    userFailures(result.Failed),
	}, nil
}

// RemoveGroup is part of pb.CloudAdapterServer.
func (s *Server) RemoveGroup(ctx context.Context, req *pb.RemoveGroupRequest) (*pb.RemoveGroupResponse, error) {
	result, err := s.config.Identity.RemoveGroup(ctx, req.GroupName)
	if err != nil {
		return nil, statusError(err)
	}
	removed := result.RemovedUsers
	if removed == nil {
		removed = []string{}
	}
	return &pb.RemoveGroupResponse{
		Success:          true,
		RemovedUsers:     removed,
		FailedUsers:      userFailures(result.FailedUsers),
		DeletedResources: result.Resources.Deleted,
		FailedResources:  result.Resources.Failed,
		Message:          result.Message(naming.NormalizeName(req.GroupName)),
	}, nil
}

// AssignPolicies is part of pb.CloudAdapterServer.
func (s *Server) AssignPolicies(ctx context.Context, req *pb.AssignPoliciesRequest) (*pb.AssignPoliciesResponse, error) {
	result, err := s.config.Identity.AssignPolicies(ctx, identity.AssignPoliciesParams{
		ResourceTypes: req.ResourceTypes,
		GroupName:     req.GroupName,
		UserName:      req.UserName,
	})
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.AssignPoliciesResponse{
		Success:  result.Success(),
		Message:  result.Message(),
		Outcomes: policyOutcomes(result.Outcomes),
	}, nil
}

// UpdateGroupLeaders is part of pb.CloudAdapterServer.
func (s *Server) UpdateGroupLeaders(ctx context.Context, req *pb.CreateGroupWithLeadersRequest) (*pb.GroupCreatedResponse, error) {
	result, err := s.config.Identity.UpdateGroupLeaders(ctx, groupParams(req))
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GroupCreatedResponse{
		Success:        result.Success(),
		Message:        result.Message(),
		GroupName:      result.GroupName,
		AddedLeaders:   result.Added,
		RemovedLeaders: result.Removed,
		FailedLeaders:  userFailures(result.Failed),
		Policies:       policyOutcomes(result.Policies),
	}, nil
}

// GetTotalCostForGroup is part of pb.CloudAdapterServer.
func (s *Server) GetTotalCostForGroup(ctx context.Context, req *pb.CostRequest) (*pb.CostResponse, error) {
	amount, err := s.config.Costs.GroupTotal(ctx, req.GroupName, req.StartDate, req.EndDate)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.CostResponse{Amount: amount}, nil
}

// GetTotalCostsForAllGroups is part of pb.CloudAdapterServer.
func (s *Server) GetTotalCostsForAllGroups(ctx context.Context, req *pb.CostRequest) (*pb.AllGroupsCostResponse, error) {
	totals, err := s.config.Costs.AllGroupTotals(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, statusError(err)
	}
	resp := &pb.AllGroupsCostResponse{GroupCosts: []pb.GroupCost{}}
	for _, name := range sortedKeys(totals) {
		resp.GroupCosts = append(resp.GroupCosts, pb.GroupCost{GroupName: name, Amount: totals[name]})
	}
	return resp, nil
}

// GetTotalCost is part of pb.CloudAdapterServer.
func (s *Server) GetTotalCost(ctx context.Context, req *pb.CostRequest) (*pb.CostResponse, error) {
	amount, err := s.config.Costs.SubscriptionTotal(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.CostResponse{Amount: amount}, nil
}

// GetGroupCostWithServiceBreakdown is part of pb.CloudAdapterServer.
func (s *Server) GetGroupCostWithServiceBreakdown(ctx context.Context, req *pb.CostRequest) (*pb.GroupServiceBreakdownResponse, error) {
	b, err := s.config.Costs.GroupServiceBreakdown(ctx, req.GroupName, req.StartDate, req.EndDate)
	if err != nil {
		return nil, statusError(err)
	}
	return breakdownResponse(b), nil
}

// GetTotalCostWithServiceBreakdown is part of pb.CloudAdapterServer.
func (s *Server) GetTotalCostWithServiceBreakdown(ctx context.Context, req *pb.CostRequest) (*pb.GroupServiceBreakdownResponse, error) {
	b, err := s.config.Costs.SubscriptionServiceBreakdown(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, statusError(err)
	}
	return breakdownResponse(b), nil
}

// GetGroupCostsLast6MonthsByService is part of pb.CloudAdapterServer.
func (s *Server) GetGroupCostsLast6MonthsByService(ctx context.Context, req *pb.GroupCostMapRequest) (*pb.GroupCostMapResponse, error) {
	costs, err := s.config.Costs.GroupLastSixMonthsByService(ctx, strings.TrimSpace(req.GroupName))
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GroupCostMapResponse{Costs: costs}, nil
}

// GetGroupMonthlyCostsLast6Months is part of pb.CloudAdapterServer.
func (s *Server) GetGroupMonthlyCostsLast6Months(ctx context.Context, req *pb.GroupMonthlyCostsRequest) (*pb.GroupMonthlyCostsResponse, error) {
	costs, err := s.config.Costs.GroupMonthlyLastSixMonths(ctx, strings.TrimSpace(req.GroupName))
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GroupMonthlyCostsResponse{MonthCosts: costs}, nil
}

// GetAvailableServices is part of pb.CloudAdapterServer.
func (s *Server) GetAvailableServices(context.Context, *pb.GetAvailableServicesRequest) (*pb.GetAvailableServicesResponse, error) {
	return &pb.GetAvailableServicesResponse{Services: rbac.AvailableResourceTypes()}, nil
}

// GetResourceCount is part of pb.CloudAdapterServer.
func (s *Server) GetResourceCount(ctx context.Context, req *pb.ResourceCountRequest) (*pb.ResourceCountResponse, error) {
	count, err := s.config.Resources.Count(ctx, req.GroupName, req.ResourceType)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.ResourceCountResponse{Count: int32(count)}, nil
}

// CleanupGroupResources is part of pb.CloudAdapterServer.
func (s *Server) CleanupGroupResources(ctx context.Context, req *pb.CleanupGroupRequest) (*pb.CleanupGroupResponse, error) {
	normalized := naming.NormalizeName(req.GroupName)
	if normalized == "" {
		return nil, statusError(errors.NotValidf("empty group name"))
	}
	result, err := s.config.Resources.CleanupGroup(ctx, normalized)
	if err != nil {
		return nil, statusError(err)
	}
	deleted := result.Deleted
	if deleted == nil {
		deleted = []string{}
	}
	if len(result.Failed) > 0 {
		logger.Warningf("cleanup of %q left %d resource(s): %v", normalized, len(result.Failed), result.Failed)
	}
	return &pb.CleanupGroupResponse{
		Success:          len(result.Failed) == 0,
		DeletedResources: deleted,
		FailedResources:  result.Failed,
		Message:          result.Message(normalized),
	}, nil
}

func groupParams(req *pb.CreateGroupWithLeadersRequest) identity.CreateGroupParams {
	return identity.CreateGroupParams{
		Name:          req.GroupName,
		ResourceTypes: req.ResourceTypes,
		Leaders:       req.Leaders,
	}
}

func policyOutcomes(outcomes []identity.PolicyOutcome) []pb.PolicyOutcome {
	var out []pb.PolicyOutcome
	for _, o := range outcomes {
		out = append(out, pb.PolicyOutcome{
			ResourceType: o.ResourceType,
			Principal:    o.Principal,
			Assigned:     o.Assigned,
			Reason:       o.Reason,
		})
	}
	return out
}

func userFailures(failures []identity.UserFailure) []pb.UserFailure {
	var out []pb.UserFailure
	for _, f := range failures {
		out = append(out, pb.UserFailure{Login: f.Login, Reason: f.Reason})
	}
	return out
}

func breakdownResponse(b cost.Breakdown) *pb.GroupServiceBreakdownResponse {
	resp := &pb.GroupServiceBreakdownResponse{Total: b.Total, Breakdown: []pb.ServiceCost{}}
	for _, name := range sortedKeys(b.ByService) {
		resp.Breakdown = append(resp.Breakdown, pb.ServiceCost{ServiceName: name, Amount: b.ByService[name]})
	}
	return resp
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
