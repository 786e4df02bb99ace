package models

// Status classifies a member's net position.
type Status string

const (
	StatusToReceive Status = "TO_RECEIVE"
	StatusToPay     Status = "TO_PAY"
	StatusSettled   Status = "SETTLED"
)

// MemberSummary is one member's position inside a group.
type MemberSummary struct {
	UserID string
	Paid   float64
	Owed   float64
	// Net is Paid - Owed. Positive means others owe this member.
	Net    float64
	Status Status
}

// BalanceSummary is a user's personal running balance.
type BalanceSummary struct {
	Current  float64
	Income   float64
	Expenses float64
}

// MonthlySpend compares the current calendar month's outlay to a limit.
type MonthlySpend struct {
	Current    float64
	Limit      float64
	Percentage int
}
