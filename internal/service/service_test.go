package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// testUserHeader names the caller for testAuthInterceptor.
const testUserHeader = "X-Test-User"

// fixedNow is mid-month so monthly spend never straddles a boundary.
var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// testAuthInterceptor trusts testUserHeader as the caller's identity.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	store  *sqlite.SQLiteStore
	ledger apiconnect.LedgerServiceClient
	groups apiconnect.GroupServiceClient
	users  apiconnect.AuthServiceClient
}

// setupTestServer starts the ledger, group and auth services over a temp-file
// SQLite database. configure runs before the server accepts requests.
func setupTestServer(t *testing.T, configure ...func(*LedgerService)) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	ledgerSvc := NewLedgerService(store, LedgerConfig{})
	ledgerSvc.now = func() time.Time { return fixedNow }
	for _, fn := range configure {
		fn(ledgerSvc)
	}

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(ledgerSvc, interceptors)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(store, "USD"), interceptors)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), auth.NewJWTManager("test-secret", time.Hour), store, slog.New(slog.DiscardHandler))
	authPath, authHandler := apiconnect.NewAuthServiceHandler(authSvc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(groupPath, groupHandler)
	mux.Handle(authPath, authHandler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testEnv{
		store:  store,
		ledger: apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		groups: apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		users:  apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

// createUsers registers users whose ID doubles as a lowercase name.
func (e *testEnv) createUsers(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		user := &models.User{
			ID:           id,
			Email:        id + "@example.com",
			DisplayName:  strings.ToUpper(id[:1]) + id[1:],
			PasswordHash: "unused",
			MonthlyLimit: models.DefaultMonthlyLimit,
			Currency:     "USD",
			CreatedAt:    fixedNow.Unix(),
			UpdatedAt:    fixedNow.Unix(),
		}
		if err := e.store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("failed to create user %s: %v", id, err)
		}
	}
}

func (e *testEnv) createGroup(t *testing.T, name, creator string, members ...string) string {
	t.Helper()
	resp, err := e.groups.CreateGroup(context.Background(), as(creator, &api.CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group.ID
}

// expense records an EQUAL expense paid by payer and shared by participants.
func (e *testEnv) expense(t *testing.T, payer, groupID string, amount float64, participants ...string) *api.Transaction {
	t.Helper()
	splits := make([]api.SplitEntry, len(participants))
	for i, p := range participants {
		splits[i] = api.SplitEntry{ParticipantID: p}
	}
	resp, err := e.ledger.CreateTransaction(context.Background(), as(payer, &api.CreateTransactionRequest{
		Kind:        "EXPENSE",
		Description: "expense",
		Amount:      amount,
		GroupID:     groupID,
		SplitPolicy: "EQUAL",
		Splits:      splits,
	}))
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return resp.Msg.Transaction
}

func (e *testEnv) summary(t *testing.T, userID, groupID string) *api.GetGroupSummaryResponse {
	t.Helper()
	resp, err := e.ledger.GetGroupSummary(context.Background(), as(userID, &api.GetGroupSummaryRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroupSummary failed: %v", err)
	}
	return resp.Msg
}

func memberByID(summary []*api.MemberSummary, userID string) *api.MemberSummary {
	for _, m := range summary {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
