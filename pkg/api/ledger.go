package api

// SplitEntry is one participant row of a transaction's split.
type SplitEntry struct {
	ParticipantID string   `json:"participantId"`
	ExactAmount   *float64 `json:"exactAmount,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
	Adjustment    *float64 `json:"adjustment,omitempty"`
}

// Transaction is a recorded EXPENSE, INCOME or SETTLEMENT.
type Transaction struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Description string       `json:"description,omitempty"`
	Amount      float64      `json:"amount"`
	OccurredAt  *Timestamp   `json:"occurredAt"`
	PayerID     string       `json:"payerId"`
	RecipientID string       `json:"recipientId,omitempty"`
	GroupID     string       `json:"groupId,omitempty"`
	SplitPolicy string       `json:"splitPolicy"`
	Splits      []SplitEntry `json:"splits,omitempty"`
	Category    string       `json:"category,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
}

type CreateTransactionRequest struct {
	Kind        string       `json:"kind"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	OccurredAt  *Timestamp   `json:"occurredAt,omitempty"`
	RecipientID string       `json:"recipientId,omitempty"`
	GroupID     string       `json:"groupId,omitempty"`
	SplitPolicy string       `json:"splitPolicy,omitempty"`
	Splits      []SplitEntry `json:"splits,omitempty"`
	Category    string       `json:"category,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

// SettleDebtRequest records that the caller paid ToUserID.
type SettleDebtRequest struct {
	ToUserID string  `json:"toUserId"`
	Amount   float64 `json:"amount"`
	GroupID  string  `json:"groupId,omitempty"`
}

type SettleDebtResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

// ListTransactionsRequest lists a group's transactions, or the caller's
// feed when GroupID is empty. Page starts at 1.
type ListTransactionsRequest struct {
	GroupID string `json:"groupId,omitempty"`
	Page    int    `json:"page,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type BalanceSummary struct {
	Current  float64 `json:"current"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type MonthlySpend struct {
	Current    float64 `json:"current"`
	Limit      float64 `json:"limit"`
	Percentage int     `json:"percentage"`
}

type Preferences struct {
	Currency     string  `json:"currency"`
	MonthlyLimit float64 `json:"monthlyLimit"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Balance            BalanceSummary `json:"balance"`
	MonthlySpend       MonthlySpend   `json:"monthlySpend"`
	RecentTransactions []*Transaction `json:"recentTransactions"`
	Preferences        Preferences    `json:"userPreferences"`
}

type MemberSummary struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"userName"`
	Paid        float64 `json:"paid"`
	Owed        float64 `json:"owe"`
	Net         float64 `json:"net"`
	Status      string  `json:"status"`
}

type GroupOverview struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Currency      string   `json:"currency"`
	Members       []string `json:"members"`
	TotalExpenses float64  `json:"totalExpenses"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupSummaryResponse struct {
	Group        GroupOverview    `json:"group"`
	Summary      []*MemberSummary `json:"summary"`
	YourPosition *MemberSummary   `json:"yourPosition,omitempty"`
}

type UserRef struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"userName"`
}

type Settlement struct {
	From      UserRef `json:"from"`
	To        UserRef `json:"to"`
	Amount    float64 `json:"amount"`
	GroupID   string  `json:"groupId,omitempty"`
	GroupName string  `json:"groupName,omitempty"`
}

// Settlement strategies accepted by GetSettlements.
const (
	StrategySimplified = "simplified"
	StrategyDetailed   = "detailed"
)

type GetSettlementsRequest struct {
	Strategy string `json:"strategy,omitempty"`
	GroupID  string `json:"groupId,omitempty"`
}

type GetSettlementsResponse struct {
	Strategy         string        `json:"strategy"`
	Settlements      []*Settlement `json:"settlements"`
	TotalSettlements int           `json:"totalSettlements"`
	TotalAmount      float64       `json:"totalAmount"`
}

type GetDebtsRequest struct{}

type GetDebtsResponse struct {
	TotalOwing  float64       `json:"totalOwing"`
	Settlements []*Settlement `json:"settlements"`
}
