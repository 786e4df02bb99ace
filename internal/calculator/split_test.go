package calculator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestResolveShares(t *testing.T) {
	tests := []struct {
		name    string
		tx      models.Transaction
		members []string
		want    map[string]float64
	}{
		{
			name: "equal split across entries",
			tx:   expense("g1", "Alice", 90, "Alice", "Bob", "Charlie"),
			want: map[string]float64{"Alice": 30, "Bob": 30, "Charlie": 30},
		},
		{
			name:    "equal split without entries uses group members",
			tx:      expense("g1", "Alice", 100),
			members: []string{"Alice", "Bob", "Charlie", "Diana"},
			want:    map[string]float64{"Alice": 25, "Bob": 25, "Charlie": 25, "Diana": 25},
		},
		{
			name: "personal equal split charges the payer",
			tx:   expense("", "Alice", 42.5),
			want: map[string]float64{"Alice": 42.5},
		},
		{
			name: "exact split",
			tx: models.Transaction{
				Kind: models.KindExpense, Amount: 50, GroupID: "g1", PayerID: "Alice",
				SplitPolicy: models.SplitExact,
				Splits: []models.SplitEntry{
					{ParticipantID: "Alice", ExactAmount: models.Float(20)},
					{ParticipantID: "Bob", ExactAmount: models.Float(30)},
				},
			},
			want: map[string]float64{"Alice": 20, "Bob": 30},
		},
		{
			name: "exact split with missing amount is zero",
			tx: models.Transaction{
				Kind: models.KindExpense, Amount: 50, GroupID: "g1", PayerID: "Alice",
				SplitPolicy: models.SplitExact,
				Splits: []models.SplitEntry{
					{ParticipantID: "Alice", ExactAmount: models.Float(50)},
					{ParticipantID: "Bob"},
				},
			},
			want: map[string]float64{"Alice": 50, "Bob": 0},
		},
		{
			name: "percentage split",
			tx: models.Transaction{
				Kind: models.KindExpense, Amount: 200, GroupID: "g1", PayerID: "Alice",
				SplitPolicy: models.SplitPercentage,
				Splits: []models.SplitEntry{
					{ParticipantID: "Alice", Percentage: models.Float(25)},
					{ParticipantID: "Bob", Percentage: models.Float(75)},
				},
			},
			want: map[string]float64{"Alice": 50, "Bob": 150},
		},
		{
			name: "settlement has no shares",
			tx:   settlement("g1", "Bob", "Alice", 20),
			want: map[string]float64{},
		},
		{
			name:    "group transaction with no entries and no members",
			tx:      expense("g1", "Alice", 10),
			members: nil,
			want:    map[string]float64{},
		},
		{
			name: "unknown policy resolves to nothing",
			tx: models.Transaction{
				Kind: models.KindExpense, Amount: 10, GroupID: "g1", PayerID: "Alice",
				SplitPolicy: "SHARES",
				Splits:      []models.SplitEntry{{ParticipantID: "Alice"}},
			},
			want: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := ResolveShares(tt.tx, tt.members)
			require.Len(t, shares, len(tt.want))
			for id, want := range tt.want {
				got, ok := shares[id]
				require.True(t, ok, "missing share for %s", id)
				assert.InDelta(t, want, got.InexactFloat64(), 0.001, "share for %s", id)
			}
		})
	}
}

func TestResolveShares_EqualSumMatchesAmount(t *testing.T) {
	amounts := []float64{0.01, 1, 10, 33.33, 99.99, 100, 1234.56, 7777.77}
	for _, amount := range amounts {
		for n := 1; n <= 13; n++ {
			t.Run(fmt.Sprintf("%v/%d", amount, n), func(t *testing.T) {
				participants := make([]string, n)
				for i := range participants {
					participants[i] = fmt.Sprintf("user-%d", i)
				}
				shares := ResolveShares(expense("g1", "user-0", amount, participants...), nil)

				total := decimal.Zero
				for _, s := range shares {
					total = total.Add(s)
				}
				assert.InDelta(t, amount, total.InexactFloat64(), Tolerance)
			})
		}
	}
}
