package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Kind is the type of monetary event a transaction records.
type Kind string

const (
	KindExpense    Kind = "EXPENSE"
	KindIncome     Kind = "INCOME"
	KindSettlement Kind = "SETTLEMENT"
)

// SplitPolicy governs how a transaction's amount is divided among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "EQUAL"
	SplitExact      SplitPolicy = "EXACT"
	SplitPercentage SplitPolicy = "PERCENTAGE"
)

// SplitTolerance is the slack allowed when EXACT amounts or PERCENTAGE
// values are checked against their expected total.
const SplitTolerance = 0.02

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidKind        = errors.New("unknown transaction kind")
	ErrInvalidSplitPolicy = errors.New("unknown split policy")
	ErrMissingPayer       = errors.New("payer is required")
	ErrMissingRecipient   = errors.New("settlement requires a recipient")
	ErrSelfSettlement     = errors.New("settlement recipient must differ from payer")
	ErrSplitSumMismatch   = errors.New("split amounts do not equal total amount")
	ErrPercentageSum      = errors.New("percentages must equal 100%")
	ErrMissingParticipant = errors.New("split entry requires a participant")
	ErrNegativeShare      = errors.New("split amounts and percentages must not be negative")
	ErrAdjustmentReadOnly = errors.New("split adjustments cannot be written")
)

// Transaction is a single monetary event. Amount is always positive; its
// direction comes from Kind and from who is payer or recipient.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	Kind        Kind
	Description string

	// Amount is the gross amount of the event, in the group's currency.
	Amount float64

	// OccurredAt is when the event happened, used for monthly spend.
	OccurredAt time.Time

	// PayerID is the user who fronted the money.
	PayerID string

	// RecipientID is the user who received a SETTLEMENT payment.
	// Empty for EXPENSE and INCOME.
	RecipientID string

	// GroupID is empty for personal transactions.
	GroupID string

	SplitPolicy SplitPolicy

	// Splits are ordered participant rows. For EQUAL they carry no amounts.
	Splits []SplitEntry

	Category string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}

// SplitEntry is one participant's row in a transaction's split.
type SplitEntry struct {
	ParticipantID string

	// ExactAmount is set for EXACT splits.
	ExactAmount *float64

	// Percentage is set for PERCENTAGE splits, on a 0-100 scale.
	Percentage *float64

	// Adjustment is a signed correction to the participant's owed total.
	// Only SETTLEMENT transactions carry it; negative reduces what is owed.
	Adjustment *float64
}

// IsPersonal reports whether the transaction is outside any group.
func (t *Transaction) IsPersonal() bool {
	return t.GroupID == ""
}

// Involves reports whether the user is payer, recipient or a split participant.
func (t *Transaction) Involves(userID string) bool {
	if t.PayerID == userID || t.RecipientID == userID {
		return true
	}
	for _, s := range t.Splits {
		if s.ParticipantID == userID {
			return true
		}
	}
	return false
}

// Validate rejects transactions whose totals cannot be trusted by the
// calculator. It is run on the write path before a transaction is stored.
func (t *Transaction) Validate() error {
	if t.PayerID == "" {
		return ErrMissingPayer
	}
	if !(t.Amount > 0) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, t.Amount)
	}

	switch t.Kind {
	case KindExpense, KindIncome:
	case KindSettlement:
		if t.RecipientID == "" {
			return ErrMissingRecipient
		}
		if t.RecipientID == t.PayerID {
			return ErrSelfSettlement
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}

	switch t.SplitPolicy {
	case SplitEqual, SplitExact, SplitPercentage:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSplitPolicy, t.SplitPolicy)
	}

	for i, s := range t.Splits {
		if s.ParticipantID == "" {
			return fmt.Errorf("%w: entry %d", ErrMissingParticipant, i)
		}
		// Adjustments only come from legacy rows rewritten by Normalize.
		if s.Adjustment != nil {
			return fmt.Errorf("%w: entry %d", ErrAdjustmentReadOnly, i)
		}
		if (s.ExactAmount != nil && *s.ExactAmount < 0) || (s.Percentage != nil && *s.Percentage < 0) {
			return fmt.Errorf("%w: entry %d", ErrNegativeShare, i)
		}
	}

	// Split sums are only enforced for expenses with explicit entries.
	if t.Kind != KindExpense || len(t.Splits) == 0 {
		return nil
	}

	switch t.SplitPolicy {
	case SplitExact:
		var total float64
		for _, s := range t.Splits {
			if s.ExactAmount != nil {
				total += *s.ExactAmount
			}
		}
		if math.Abs(total-t.Amount) > SplitTolerance {
			return fmt.Errorf("%w: split amounts (%.2f) vs total (%.2f)", ErrSplitSumMismatch, total, t.Amount)
		}
	case SplitPercentage:
		var total float64
		for _, s := range t.Splits {
			if s.Percentage != nil {
				total += *s.Percentage
			}
		}
		if math.Abs(total-100) > SplitTolerance {
			return fmt.Errorf("%w: got %v%%", ErrPercentageSum, total)
		}
	}
	return nil
}

// Normalize rewrites the legacy convention where a SETTLEMENT split entry
// carried a negative ExactAmount to mean "this participant paid down debt".
// Such entries are moved to Adjustment so the calculator only ever reads
// the explicit field.
func (t *Transaction) Normalize() {
	if t.Kind != KindSettlement {
		return
	}
	for i := range t.Splits {
		s := &t.Splits[i]
		if s.ExactAmount != nil && *s.ExactAmount < 0 && s.Adjustment == nil {
			adj := *s.ExactAmount
			s.Adjustment = &adj
			s.ExactAmount = nil
		}
	}
}

// Float returns a pointer to v, for populating optional split fields.
func Float(v float64) *float64 {
	return &v
}
