package models

import (
	"errors"
	"math"
	"testing"
)

func percentageExpense(percentages ...float64) *Transaction {
	tx := &Transaction{
		Kind:        KindExpense,
		Amount:      100,
		PayerID:     "Alice",
		GroupID:     "g1",
		SplitPolicy: SplitPercentage,
	}
	for i, p := range percentages {
		tx.Splits = append(tx.Splits, SplitEntry{
			ParticipantID: string(rune('A' + i)),
			Percentage:    Float(p),
		})
	}
	return tx
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      *Transaction
		wantErr error
	}{
		{
			name: "equal expense",
			tx: &Transaction{
				Kind: KindExpense, Amount: 30, PayerID: "Alice", SplitPolicy: SplitEqual,
				Splits: []SplitEntry{{ParticipantID: "Alice"}, {ParticipantID: "Bob"}},
			},
		},
		{
			name: "percentages summing to 99.99 are accepted",
			tx:   percentageExpense(33.33, 33.33, 33.33),
		},
		{
			name:    "percentages summing to 90 are rejected",
			tx:      percentageExpense(45, 45),
			wantErr: ErrPercentageSum,
		},
		{
			name: "exact amounts within two cents",
			tx: &Transaction{
				Kind: KindExpense, Amount: 10, PayerID: "Alice", SplitPolicy: SplitExact,
				Splits: []SplitEntry{
					{ParticipantID: "Alice", ExactAmount: Float(3.33)},
					{ParticipantID: "Bob", ExactAmount: Float(6.66)},
				},
			},
		},
		{
			name: "exact amounts off by more than two cents",
			tx: &Transaction{
				Kind: KindExpense, Amount: 10, PayerID: "Alice", SplitPolicy: SplitExact,
				Splits: []SplitEntry{
					{ParticipantID: "Alice", ExactAmount: Float(3)},
					{ParticipantID: "Bob", ExactAmount: Float(6)},
				},
			},
			wantErr: ErrSplitSumMismatch,
		},
		{
			name:    "zero amount",
			tx:      &Transaction{Kind: KindExpense, Amount: 0, PayerID: "Alice", SplitPolicy: SplitEqual},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NaN amount",
			tx:      &Transaction{Kind: KindExpense, Amount: math.NaN(), PayerID: "Alice", SplitPolicy: SplitEqual},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing payer",
			tx:      &Transaction{Kind: KindExpense, Amount: 5, SplitPolicy: SplitEqual},
			wantErr: ErrMissingPayer,
		},
		{
			name:    "unknown kind",
			tx:      &Transaction{Kind: "REFUND", Amount: 5, PayerID: "Alice", SplitPolicy: SplitEqual},
			wantErr: ErrInvalidKind,
		},
		{
			name:    "unknown policy",
			tx:      &Transaction{Kind: KindExpense, Amount: 5, PayerID: "Alice", SplitPolicy: "SHARES"},
			wantErr: ErrInvalidSplitPolicy,
		},
		{
			name:    "settlement without recipient",
			tx:      &Transaction{Kind: KindSettlement, Amount: 5, PayerID: "Alice", SplitPolicy: SplitExact},
			wantErr: ErrMissingRecipient,
		},
		{
			name:    "settlement to self",
			tx:      &Transaction{Kind: KindSettlement, Amount: 5, PayerID: "Alice", RecipientID: "Alice", SplitPolicy: SplitExact},
			wantErr: ErrSelfSettlement,
		},
		{
			name: "entry without participant",
			tx: &Transaction{
				Kind: KindExpense, Amount: 5, PayerID: "Alice", SplitPolicy: SplitEqual,
				Splits: []SplitEntry{{}},
			},
			wantErr: ErrMissingParticipant,
		},
		{
			name: "settlement carrying an adjustment",
			tx: &Transaction{
				Kind: KindSettlement, Amount: 20, PayerID: "Bob", RecipientID: "Alice", SplitPolicy: SplitExact,
				Splits: []SplitEntry{{ParticipantID: "Bob", Adjustment: Float(-20)}},
			},
			wantErr: ErrAdjustmentReadOnly,
		},
		{
			name: "settlement carrying a negative exact amount",
			tx: &Transaction{
				Kind: KindSettlement, Amount: 20, PayerID: "Bob", RecipientID: "Alice", SplitPolicy: SplitExact,
				Splits: []SplitEntry{{ParticipantID: "Bob", ExactAmount: Float(-20)}},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name: "expense offsetting a negative exact amount",
			tx: &Transaction{
				Kind: KindExpense, Amount: 100, PayerID: "Alice", SplitPolicy: SplitExact,
				Splits: []SplitEntry{
					{ParticipantID: "Alice", ExactAmount: Float(150)},
					{ParticipantID: "Bob", ExactAmount: Float(-50)},
				},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:    "negative percentage",
			tx:      percentageExpense(120, -20),
			wantErr: ErrNegativeShare,
		},
		{
			name: "income split sums are not enforced",
			tx: &Transaction{
				Kind: KindIncome, Amount: 100, PayerID: "Alice", SplitPolicy: SplitPercentage,
				Splits: []SplitEntry{{ParticipantID: "Alice", Percentage: Float(50)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionNormalize(t *testing.T) {
	tx := &Transaction{
		Kind:        KindSettlement,
		Amount:      20,
		PayerID:     "Bob",
		RecipientID: "Alice",
		Splits: []SplitEntry{
			{ParticipantID: "Bob", ExactAmount: Float(-20)},
			{ParticipantID: "Alice", ExactAmount: Float(20)},
		},
	}
	tx.Normalize()

	if tx.Splits[0].ExactAmount != nil || tx.Splits[0].Adjustment == nil || *tx.Splits[0].Adjustment != -20 {
		t.Errorf("negative settlement amount not moved to adjustment: %+v", tx.Splits[0])
	}
	if tx.Splits[1].Adjustment != nil || tx.Splits[1].ExactAmount == nil {
		t.Errorf("positive entry should be untouched: %+v", tx.Splits[1])
	}

	expense := &Transaction{
		Kind:   KindExpense,
		Splits: []SplitEntry{{ParticipantID: "Bob", ExactAmount: Float(-5)}},
	}
	expense.Normalize()
	if expense.Splits[0].Adjustment != nil {
		t.Error("Normalize must only rewrite settlements")
	}
}

func TestTransactionInvolves(t *testing.T) {
	tx := &Transaction{
		PayerID:     "Alice",
		RecipientID: "Bob",
		Splits:      []SplitEntry{{ParticipantID: "Charlie"}},
	}
	for _, id := range []string{"Alice", "Bob", "Charlie"} {
		if !tx.Involves(id) {
			t.Errorf("Involves(%q) = false, want true", id)
		}
	}
	if tx.Involves("Diana") {
		t.Error("Involves(Diana) = true, want false")
	}
}
