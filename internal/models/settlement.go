package models

// Settlement is a suggested payment that moves balances toward zero.
// It is never stored: acting on it means recording a SETTLEMENT transaction.
type Settlement struct {
	// FromUserID is the debtor who should pay.
	FromUserID string

	// ToUserID is the creditor who should receive.
	ToUserID string

	// Amount is rounded to cents and always at least 0.01.
	Amount float64

	// GroupID and GroupName are set only by per-group netting.
	GroupID   string
	GroupName string
}
