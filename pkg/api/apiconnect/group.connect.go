package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "splitledger.v1.GroupService"

// Procedure paths, used for routing and metrics labels.
const (
	GroupServiceCreateGroupProcedure  = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure     = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure   = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure  = "/splitledger.v1.GroupService/UpdateGroup"
	GroupServiceAddMembersProcedure   = "/splitledger.v1.GroupService/AddMembers"
	GroupServiceRemoveMemberProcedure = "/splitledger.v1.GroupService/RemoveMember"
	GroupServiceLeaveGroupProcedure   = "/splitledger.v1.GroupService/LeaveGroup"
)

// GroupServiceClient is a client for the splitledger.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error)
}

// NewGroupServiceClient constructs a client for the splitledger.v1.GroupService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:  connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:     connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:   connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		updateGroup:  connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		addMembers:   connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		leaveGroup:   connect.NewClient[api.LeaveGroupRequest, api.LeaveGroupResponse](httpClient, baseURL+GroupServiceLeaveGroupProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup  *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup     *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups   *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	updateGroup  *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	addMembers   *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	leaveGroup   *connect.Client[api.LeaveGroupRequest, api.LeaveGroupResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by servers of the splitledger.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceUpdateGroupProcedure, connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...))
	mux.Handle(GroupServiceAddMembersProcedure, connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...))
	mux.Handle(GroupServiceRemoveMemberProcedure, connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(GroupServiceLeaveGroupProcedure, connect.NewUnaryHandler(GroupServiceLeaveGroupProcedure, svc.LeaveGroup, opts...))
	return "/" + GroupServiceName + "/", mux
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.ListGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.UpdateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.AddMembers is not implemented"))
}

func (UnimplementedGroupServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.RemoveMember is not implemented"))
}

func (UnimplementedGroupServiceHandler) LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.GroupService.LeaveGroup is not implemented"))
}
