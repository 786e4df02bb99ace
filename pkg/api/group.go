package api

type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Currency      string   `json:"currency"`
	CreatorID     string   `json:"creatorId"`
	Members       []string `json:"members"`
	FormerMembers []string `json:"formerMembers,omitempty"`
	CreatedAt     int64    `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency,omitempty"`
	Members  []string `json:"members,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// UpdateGroupRequest renames a group or changes its currency. Empty fields
// keep their current value.
type UpdateGroupRequest struct {
	GroupID  string `json:"groupId"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMembersRequest struct {
	GroupID string   `json:"groupId"`
	Members []string `json:"members"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

// RemoveMemberRequest removes another current member from a group.
type RemoveMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"groupId"`
}

type LeaveGroupResponse struct{}
