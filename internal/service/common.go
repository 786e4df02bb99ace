// Package service implements the Connect handlers for the ledger, group and
// auth services on top of a storage.Store and the calculator engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errNotMember = errors.New("you are not a member of this group")
	errNotPayer  = errors.New("only the payer can delete a transaction")
)

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// storeError maps a storage failure to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// memberGroup loads a group the caller currently belongs to.
func memberGroup(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// requireUsers fails with InvalidArgument unless every ID is a registered user.
func requireUsers(ctx context.Context, users storage.UserStore, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown user %q", id))
		}
	}
	return nil
}

// parseCurrency normalizes a three-letter currency code.
func parseCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid currency %q", raw))
	}
	return code, nil
}

// sumCents adds amounts exactly and rounds the total to cents.
func sumCents(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}
