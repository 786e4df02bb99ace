package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// StartingBalance is the float every user is assumed to start with.
const StartingBalance = 5000

// ComputeBalance sums a user's income and own paid expenses onto the
// starting balance. Expenses count the payer's gross outlay, not the
// payer's share. Transactions not involving the user are ignored.
func ComputeBalance(userID string, txs []models.Transaction) models.BalanceSummary {
	income, expenses := decimal.Zero, decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if !tx.Involves(userID) {
			continue
		}
		switch {
		case tx.Kind == models.KindIncome:
			income = income.Add(dec(tx.Amount))
		case tx.Kind == models.KindExpense && tx.PayerID == userID:
			expenses = expenses.Add(dec(tx.Amount))
		}
	}

	current := decimal.NewFromInt(StartingBalance).Add(income).Sub(expenses)
	return models.BalanceSummary{
		Current:  cents(current),
		Income:   cents(income),
		Expenses: cents(expenses),
	}
}

// ComputeMonthlySpend reports the user's paid expenses in the current
// calendar month against limit.
func ComputeMonthlySpend(userID string, txs []models.Transaction, limit float64) models.MonthlySpend {
	return ComputeMonthlySpendAt(userID, txs, limit, time.Now())
}

// ComputeMonthlySpendAt is ComputeMonthlySpend for the month containing now,
// with the month starting at midnight in now's location.
func ComputeMonthlySpendAt(userID string, txs []models.Transaction, limit float64, now time.Time) models.MonthlySpend {
	start, end := monthBounds(now)

	spent := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Kind != models.KindExpense || tx.PayerID != userID {
			continue
		}
		if tx.OccurredAt.Before(start) || !tx.OccurredAt.Before(end) {
			continue
		}
		spent = spent.Add(dec(tx.Amount))
	}

	current := cents(spent)
	percentage := 0
	if limit > 0 {
		percentage = int(math.Round(current / limit * 100))
	}
	return models.MonthlySpend{
		Current:    current,
		Limit:      limit,
		Percentage: percentage,
	}
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
