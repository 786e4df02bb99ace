package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	ctx := context.Background()

	resp, err := env.groups.CreateGroup(ctx, as("alice", &api.CreateGroupRequest{
		Name:    "  Roommates ",
		Members: []string{"bob", "alice", "carol"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.ID == "" || group.Name != "Roommates" || group.CreatorID != "alice" {
		t.Errorf("unexpected group: %+v", group)
	}
	if group.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", group.Currency)
	}
	want := []string{"alice", "bob", "carol"}
	if !equalStrings(group.Members, want) {
		t.Errorf("expected members %v with creator first, got %v", want, group.Members)
	}

	euro, err := env.groups.CreateGroup(ctx, as("bob", &api.CreateGroupRequest{Name: "Lisbon", Currency: "eur"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if euro.Msg.Group.Currency != "EUR" || !equalStrings(euro.Msg.Group.Members, []string{"bob"}) {
		t.Errorf("unexpected group: %+v", euro.Msg.Group)
	}
}

func TestCreateGroup_Rejected(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice")
	ctx := context.Background()

	_, err := env.groups.CreateGroup(ctx, as("alice", &api.CreateGroupRequest{Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.CreateGroup(ctx, as("alice", &api.CreateGroupRequest{Name: "Flat", Members: []string{"ghost"}}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.CreateGroup(ctx, as("alice", &api.CreateGroupRequest{Name: "Flat", Currency: "dollars"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetGroup_MembersOnly(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	groupID := env.createGroup(t, "Flat", "alice", "bob")
	ctx := context.Background()

	resp, err := env.groups.GetGroup(ctx, as("bob", &api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flat" {
		t.Errorf("expected Flat, got %q", resp.Msg.Group.Name)
	}

	_, err = env.groups.GetGroup(ctx, as("carol", &api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.GetGroup(ctx, as("alice", &api.GetGroupRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.groups.GetGroup(ctx, as("alice", &api.GetGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListGroups(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	env.createGroup(t, "Flat", "alice", "bob")
	env.createGroup(t, "Trip", "bob", "carol")
	ctx := context.Background()

	tests := []struct {
		user  string
		count int
	}{
		{"alice", 1},
		{"bob", 2},
		{"carol", 1},
	}
	for _, tt := range tests {
		resp, err := env.groups.ListGroups(ctx, as(tt.user, &api.ListGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListGroups(%s) failed: %v", tt.user, err)
		}
		if len(resp.Msg.Groups) != tt.count {
			t.Errorf("%s: expected %d groups, got %d", tt.user, tt.count, len(resp.Msg.Groups))
		}
	}
}

func TestAddMembersAndLeaveGroup(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	groupID := env.createGroup(t, "Flat", "alice")
	ctx := context.Background()

	added, err := env.groups.AddMembers(ctx, as("alice", &api.AddMembersRequest{GroupID: groupID, Members: []string{"bob", "carol"}}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if !equalStrings(added.Msg.Group.Members, []string{"alice", "bob", "carol"}) {
		t.Errorf("unexpected members after add: %v", added.Msg.Group.Members)
	}

	env.expense(t, "alice", groupID, 90, "alice", "bob", "carol")

	if _, err := env.groups.LeaveGroup(ctx, as("bob", &api.LeaveGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("LeaveGroup failed: %v", err)
	}

	_, err = env.groups.GetGroup(ctx, as("bob", &api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.LeaveGroup(ctx, as("bob", &api.LeaveGroupRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodePermissionDenied)

	group, err := env.groups.GetGroup(ctx, as("alice", &api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !equalStrings(group.Msg.Group.FormerMembers, []string{"bob"}) {
		t.Errorf("expected bob as former member, got %v", group.Msg.Group.FormerMembers)
	}

	// A former member's share still counts.
	summary := env.summary(t, "alice", groupID)
	bob := memberByID(summary.Summary, "bob")
	if bob == nil || bob.Net != -30 {
		t.Errorf("expected bob's history to remain, got %+v", bob)
	}

	rejoined, err := env.groups.AddMembers(ctx, as("carol", &api.AddMembersRequest{GroupID: groupID, Members: []string{"bob"}}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if len(rejoined.Msg.Group.FormerMembers) != 0 || len(rejoined.Msg.Group.Members) != 3 {
		t.Errorf("expected bob to rejoin, got %+v", rejoined.Msg.Group)
	}
}

func TestAddMembers_Rejected(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob")
	groupID := env.createGroup(t, "Flat", "alice")
	ctx := context.Background()

	_, err := env.groups.AddMembers(ctx, as("bob", &api.AddMembersRequest{GroupID: groupID, Members: []string{"bob"}}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.AddMembers(ctx, as("alice", &api.AddMembersRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.AddMembers(ctx, as("alice", &api.AddMembersRequest{GroupID: groupID, Members: []string{"ghost"}}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateGroup(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	groupID := env.createGroup(t, "Flat", "alice", "bob")
	ctx := context.Background()

	resp, err := env.groups.UpdateGroup(ctx, as("bob", &api.UpdateGroupRequest{GroupID: groupID, Name: " Flatmates ", Currency: "gbp"}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flatmates" || resp.Msg.Group.Currency != "GBP" {
		t.Errorf("unexpected group: %+v", resp.Msg.Group)
	}

	resp, err = env.groups.UpdateGroup(ctx, as("alice", &api.UpdateGroupRequest{GroupID: groupID, Currency: "EUR"}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flatmates" || !equalStrings(resp.Msg.Group.Members, []string{"alice", "bob"}) {
		t.Errorf("expected name and members to be kept, got %+v", resp.Msg.Group)
	}

	summary := env.summary(t, "alice", groupID)
	if summary.Group.Name != "Flatmates" || summary.Group.Currency != "EUR" {
		t.Errorf("expected summary to reflect the update, got %+v", summary.Group)
	}

	_, err = env.groups.UpdateGroup(ctx, as("carol", &api.UpdateGroupRequest{GroupID: groupID, Name: "Mine"}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.UpdateGroup(ctx, as("alice", &api.UpdateGroupRequest{GroupID: groupID, Currency: "E1"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.UpdateGroup(ctx, as("alice", &api.UpdateGroupRequest{GroupID: "missing", Name: "x"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveMember(t *testing.T) {
	env := setupTestServer(t)
	env.createUsers(t, "alice", "bob", "carol")
	groupID := env.createGroup(t, "Trip", "alice", "bob", "carol")
	ctx := context.Background()

	env.expense(t, "alice", groupID, 90, "alice", "bob", "carol")

	resp, err := env.groups.RemoveMember(ctx, as("bob", &api.RemoveMemberRequest{GroupID: groupID, UserID: "carol"}))
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if !equalStrings(resp.Msg.Group.Members, []string{"alice", "bob"}) || !equalStrings(resp.Msg.Group.FormerMembers, []string{"carol"}) {
		t.Errorf("unexpected membership: %+v", resp.Msg.Group)
	}

	// The removed member keeps their debt.
	carol := memberByID(env.summary(t, "alice", groupID).Summary, "carol")
	if carol == nil || carol.Net != -30 {
		t.Errorf("expected carol's history to remain, got %+v", carol)
	}

	_, err = env.groups.GetGroup(ctx, as("carol", &api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodePermissionDenied)

	tests := []struct {
		name   string
		caller string
		target string
		code   connect.Code
	}{
		{"former member as target", "alice", "carol", connect.CodeInvalidArgument},
		{"missing target", "alice", "", connect.CodeInvalidArgument},
		{"caller outside group", "carol", "alice", connect.CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.RemoveMember(ctx, as(tt.caller, &api.RemoveMemberRequest{GroupID: groupID, UserID: tt.target}))
			assertCode(t, err, tt.code)
		})
	}
}
