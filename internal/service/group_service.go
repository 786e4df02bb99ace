package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store           storage.Store
	defaultCurrency string
}

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a GroupService. Groups created without a currency
// get defaultCurrency.
func NewGroupService(store storage.Store, defaultCurrency string) *GroupService {
	return &GroupService{store: store, defaultCurrency: defaultCurrency}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
		"user_id", userID,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group name required"))
	}
	currency := s.defaultCurrency
	if strings.TrimSpace(req.Msg.Currency) != "" {
		if currency, err = parseCurrency(req.Msg.Currency); err != nil {
			return nil, err
		}
	}
	if err := requireUsers(ctx, s.store, req.Msg.Members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      name,
		Currency:  currency,
		CreatorID: userID,
		Members:   req.Msg.Members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns every group the caller currently belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group or changes its currency. Any current member
// may update it.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"currency", req.Msg.Currency,
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Msg.Name); name != "" {
		group.Name = name
	}
	if strings.TrimSpace(req.Msg.Currency) != "" {
		if group.Currency, err = parseCurrency(req.Msg.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// AddMembers adds registered users to a group the caller belongs to.
// Former members rejoin with their history intact.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.Members),
	)

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}
	if len(req.Msg.Members) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("members required"))
	}
	if err := requireUsers(ctx, s.store, req.Msg.Members); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.Members); err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("Members added", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(group)}), nil
}

// RemoveMember removes another member from a group the caller belongs to.
// Like LeaveGroup, the removed member's history stays in the group.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveMember request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.UserID,
		"user_id", userID,
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" || !group.HasMember(req.Msg.UserID) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user %q is not a member of this group", req.Msg.UserID))
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		slog.Error("RemoveMember failed", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	group, err = s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "member_id", req.Msg.UserID)
	return connect.NewResponse(&api.RemoveMemberResponse{Group: toAPIGroup(group)}), nil
}

// LeaveGroup removes the caller from a group. Their past transactions keep
// counting toward the group's balances.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LeaveGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveGroupMember(ctx, req.Msg.GroupID, userID); err != nil {
		slog.Error("LeaveGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Member left group", "group_id", req.Msg.GroupID, "user_id", userID)
	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}
