package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	recentActivities = 5
)

// LedgerConfig tunes how the ledger service reads and summarizes history.
type LedgerConfig struct {
	// DefaultMonthlyLimit applies to users without a positive limit of their own.
	DefaultMonthlyLimit float64

	// HistoryWindow bounds how far back group summaries and settlement
	// plans look. Transactions older than the window are ignored there, so
	// a debt paid off by a settlement inside the window can show up as an
	// amount owed the other way. The personal dashboard always reads the
	// full history. Zero reads all history everywhere.
	HistoryWindow time.Duration
}

// LedgerService records transactions and serves balances, group summaries
// and settlement plans computed from them.
type LedgerService struct {
	store storage.Store
	cfg   LedgerConfig
	now   func() time.Time
}

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService backed by store.
func NewLedgerService(store storage.Store, cfg LedgerConfig) *LedgerService {
	if cfg.DefaultMonthlyLimit <= 0 {
		cfg.DefaultMonthlyLimit = models.DefaultMonthlyLimit
	}
	return &LedgerService{store: store, cfg: cfg, now: time.Now}
}

// CreateTransaction records an expense, income or settlement paid by the caller.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTransaction request received",
		"kind", req.Msg.Kind,
		"amount", req.Msg.Amount,
		"group_id", req.Msg.GroupID,
		"splits_count", len(req.Msg.Splits),
	)

	tx := &models.Transaction{
		Kind:        models.Kind(strings.ToUpper(strings.TrimSpace(req.Msg.Kind))),
		Description: strings.TrimSpace(req.Msg.Description),
		Amount:      req.Msg.Amount,
		PayerID:     userID,
		RecipientID: req.Msg.RecipientID,
		GroupID:     req.Msg.GroupID,
		SplitPolicy: models.SplitPolicy(strings.ToUpper(strings.TrimSpace(req.Msg.SplitPolicy))),
		Splits:      fromAPISplits(req.Msg.Splits),
		Category:    req.Msg.Category,
	}
	if tx.Kind == "" {
		tx.Kind = models.KindExpense
	}
	// A missing timestamp is the zero time, which record replaces with now.
	tx.OccurredAt = req.Msg.OccurredAt.AsTime()

	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(tx)}), nil
}

// SettleDebt records a SETTLEMENT from the caller to another user.
func (s *LedgerService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SettleDebt request received",
		"to_user_id", req.Msg.ToUserID,
		"amount", req.Msg.Amount,
		"group_id", req.Msg.GroupID,
	)

	tx := &models.Transaction{
		Kind:        models.KindSettlement,
		Description: "Settlement",
		Amount:      req.Msg.Amount,
		PayerID:     userID,
		RecipientID: req.Msg.ToUserID,
		GroupID:     req.Msg.GroupID,
	}
	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.SettleDebtResponse{Transaction: toAPITransaction(tx)}), nil
}

// record validates tx against its group and persists it.
func (s *LedgerService) record(ctx context.Context, tx *models.Transaction) error {
	if tx.SplitPolicy == "" {
		tx.SplitPolicy = models.SplitEqual
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = s.now()
	}
	if err := tx.Validate(); err != nil {
		slog.Warn("Transaction rejected", "error", err)
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	others := make([]string, 0, len(tx.Splits)+1)
	if tx.RecipientID != "" {
		others = append(others, tx.RecipientID)
	}
	for _, sp := range tx.Splits {
		others = append(others, sp.ParticipantID)
	}

	if tx.GroupID != "" {
		group, err := memberGroup(ctx, s.store, tx.GroupID, tx.PayerID)
		if err != nil {
			return err
		}
		for _, id := range others {
			if !group.HasMember(id) {
				return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user %q is not a member of group %s", id, group.ID))
			}
		}
	} else if err := requireUsers(ctx, s.store, others); err != nil {
		return err
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("CreateTransaction failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Transaction recorded",
		"transaction_id", tx.ID,
		"kind", tx.Kind,
		"group_id", tx.GroupID,
	)
	return nil
}

// DeleteTransaction removes a transaction the caller paid for.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.TransactionID)

	tx, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, storeError(err)
	}
	if tx.PayerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotPayer)
	}
	if err := s.store.DeleteTransaction(ctx, tx.ID); err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", tx.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Transaction deleted", "transaction_id", tx.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions pages through a group's transactions, or through the
// caller's own feed when no group is given. Newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	page := max(req.Msg.Page, 1)
	opts := storage.ListOptions{Limit: limit, Offset: (page - 1) * limit}

	var txs []models.Transaction
	if req.Msg.GroupID != "" {
		if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
			return nil, err
		}
		txs, err = s.store.ListTransactionsByGroup(ctx, req.Msg.GroupID, opts)
	} else {
		txs, err = s.store.ListTransactionsByUser(ctx, userID, opts)
	}
	if err != nil {
		slog.Error("ListTransactions failed", "user_id", userID, "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPITransactions(txs)}), nil
}

// GetDashboard returns the caller's balance, this month's spend against
// their limit and their latest activity. The balance covers the caller's
// whole history regardless of HistoryWindow.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	txs, err := s.store.ListTransactionsByUser(ctx, userID, storage.ListOptions{})
	if err != nil {
		slog.Error("GetDashboard failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	limit := user.MonthlyLimit
	if limit <= 0 {
		limit = s.cfg.DefaultMonthlyLimit
	}
	currency := user.Currency
	if currency == "" {
		currency = "USD"
	}

	balance := calculator.ComputeBalance(userID, txs)
	spend := calculator.ComputeMonthlySpendAt(userID, txs, limit, s.now())

	slog.Info("GetDashboard successful",
		"user_id", userID,
		"transactions_count", len(txs),
		"balance", balance.Current,
	)

	return connect.NewResponse(&api.GetDashboardResponse{
		Balance: api.BalanceSummary{
			Current:  balance.Current,
			Income:   balance.Income,
			Expenses: balance.Expenses,
		},
		MonthlySpend: api.MonthlySpend{
			Current:    spend.Current,
			Limit:      spend.Limit,
			Percentage: spend.Percentage,
		},
		RecentTransactions: toAPITransactions(txs[:min(recentActivities, len(txs))]),
		Preferences:        api.Preferences{Currency: currency, MonthlyLimit: limit},
	}), nil
}

// GetGroupSummary returns every member's paid, owed and net position.
func (s *LedgerService) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupSummary request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactionsByGroup(ctx, group.ID, s.historyOptions())
	if err != nil {
		slog.Error("GetGroupSummary failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summary := calculator.ComputeGroupSummary(*group, txs)

	ids := make([]string, len(summary))
	for i, m := range summary {
		ids[i] = m.UserID
	}
	n, err := s.lookupNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &api.GetGroupSummaryResponse{
		Group: api.GroupOverview{
			ID:       group.ID,
			Name:     group.Name,
			Currency: group.Currency,
			Members:  group.Members,
		},
		Summary: make([]*api.MemberSummary, len(summary)),
	}
	paid := make([]float64, len(summary))
	for i, m := range summary {
		resp.Summary[i] = toAPIMemberSummary(m, n)
		paid[i] = m.Paid
		if m.UserID == userID {
			resp.YourPosition = resp.Summary[i]
		}
	}
	resp.Group.TotalExpenses = sumCents(paid...)

	slog.Info("GetGroupSummary successful",
		"group_id", group.ID,
		"transactions_count", len(txs),
		"members_count", len(summary),
	)
	return connect.NewResponse(resp), nil
}

// GetSettlements suggests payments that would settle the caller's groups,
// or one group when GroupID is set.
func (s *LedgerService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetSettlements request received",
		"strategy", req.Msg.Strategy,
		"group_id", req.Msg.GroupID,
	)

	name, strategy, err := settlementStrategy(req.Msg.Strategy)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	scope := calculator.Scope{UserID: userID, GroupID: req.Msg.GroupID}
	settlements, err := s.plan(ctx, scope, strategy)
	if err != nil {
		return nil, err
	}

	n, err := s.lookupNames(ctx, settlementUsers(settlements))
	if err != nil {
		return nil, err
	}
	amounts := make([]float64, len(settlements))
	for i, st := range settlements {
		amounts[i] = st.Amount
	}

	slog.Info("GetSettlements successful",
		"strategy", strategy,
		"settlements_count", len(settlements),
	)
	return connect.NewResponse(&api.GetSettlementsResponse{
		Strategy:         name,
		Settlements:      toAPISettlements(settlements, n),
		TotalSettlements: len(settlements),
		TotalAmount:      sumCents(amounts...),
	}), nil
}

// GetDebts lists the payments the caller should make across all their groups.
func (s *LedgerService) GetDebts(ctx context.Context, req *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.plan(ctx, calculator.Scope{UserID: userID}, calculator.StrategyGlobal)
	if err != nil {
		return nil, err
	}

	var debts []models.Settlement
	var amounts []float64
	for _, st := range all {
		if st.FromUserID == userID {
			debts = append(debts, st)
			amounts = append(amounts, st.Amount)
		}
	}

	n, err := s.lookupNames(ctx, settlementUsers(debts))
	if err != nil {
		return nil, err
	}

	slog.Info("GetDebts successful", "user_id", userID, "debts_count", len(debts))
	return connect.NewResponse(&api.GetDebtsResponse{
		TotalOwing:  sumCents(amounts...),
		Settlements: toAPISettlements(debts, n),
	}), nil
}

// plan loads the ledgers in scope and runs the settlement planner on them.
func (s *LedgerService) plan(ctx context.Context, scope calculator.Scope, strategy calculator.Strategy) ([]models.Settlement, error) {
	var groups []*models.Group
	if scope.GroupID != "" {
		group, err := memberGroup(ctx, s.store, scope.GroupID, scope.UserID)
		if err != nil {
			return nil, err
		}
		groups = []*models.Group{group}
	} else {
		var err error
		groups, err = s.store.ListGroupsByMember(ctx, scope.UserID)
		if err != nil {
			slog.Error("Failed to list groups", "user_id", scope.UserID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	ledgers := make([]calculator.GroupLedger, 0, len(groups))
	for _, g := range groups {
		txs, err := s.store.ListTransactionsByGroup(ctx, g.ID, s.historyOptions())
		if err != nil {
			slog.Error("Failed to list group transactions", "group_id", g.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		ledgers = append(ledgers, calculator.GroupLedger{Group: *g, Transactions: txs})
	}

	settlements, err := calculator.ComputeSettlements(scope, strategy, ledgers)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return settlements, nil
}

// historyOptions applies HistoryWindow to group reads.
func (s *LedgerService) historyOptions() storage.ListOptions {
	if s.cfg.HistoryWindow <= 0 {
		return storage.ListOptions{}
	}
	return storage.ListOptions{Since: s.now().Add(-s.cfg.HistoryWindow)}
}

func (s *LedgerService) lookupNames(ctx context.Context, ids []string) (names, error) {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("Failed to resolve user names", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return names(users), nil
}

// settlementStrategy maps a requested strategy name to the planner strategy.
// Empty selects the simplified plan.
func settlementStrategy(requested string) (string, calculator.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "", api.StrategySimplified:
		return api.StrategySimplified, calculator.StrategyGlobal, nil
	case api.StrategyDetailed:
		return api.StrategyDetailed, calculator.StrategyPerGroup, nil
	}
	return "", "", fmt.Errorf("%w: %q", calculator.ErrUnknownStrategy, requested)
}

func settlementUsers(settlements []models.Settlement) []string {
	ids := make([]string, 0, len(settlements)*2)
	seen := make(map[string]bool)
	for _, st := range settlements {
		for _, id := range []string{st.FromUserID, st.ToUserID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
