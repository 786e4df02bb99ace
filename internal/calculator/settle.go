package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Strategy selects how net positions are turned into settlements.
type Strategy string

const (
	// StrategyGlobal nets every member across all groups in scope and
	// matches the largest debts with the largest credits.
	StrategyGlobal Strategy = "global"

	// StrategyPerGroup settles each group on its own, without netting
	// across groups.
	StrategyPerGroup Strategy = "perGroup"
)

var (
	ErrNoScope         = errors.New("either user or group scope is required")
	ErrUnknownStrategy = errors.New("unknown settlement strategy")
)

// Scope limits which groups take part in a settlement plan. GroupID wins
// when both fields are set.
type Scope struct {
	UserID  string
	GroupID string
}

// GroupLedger is a group together with every transaction tagged with it.
type GroupLedger struct {
	Group        models.Group
	Transactions []models.Transaction
}

// NetBalance is a member's net position, positive when owed money.
type NetBalance struct {
	UserID string
	Net    float64
}

// ComputeSettlements builds a settlement plan for scope from ledgers using
// strategy. Calling it twice with the same input yields the same plan.
func ComputeSettlements(scope Scope, strategy Strategy, ledgers []GroupLedger) ([]models.Settlement, error) {
	if scope.UserID == "" && scope.GroupID == "" {
		return nil, ErrNoScope
	}

	var selected []GroupLedger
	for _, l := range ledgers {
		if scope.GroupID != "" {
			if l.Group.ID == scope.GroupID {
				selected = append(selected, l)
			}
			continue
		}
		if l.Group.HasMember(scope.UserID) {
			selected = append(selected, l)
		}
	}

	switch strategy {
	case StrategyGlobal:
		return SimplifyDebts(AggregateNets(selected)), nil
	case StrategyPerGroup:
		var settlements []models.Settlement
		for _, l := range selected {
			settlements = append(settlements, NetGroup(l)...)
		}
		return settlements, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// AggregateNets sums each member's net across ledgers, so a creditor in one
// group and debtor in another is netted out. Members keep the order in which
// they are first seen.
func AggregateNets(ledgers []GroupLedger) []NetBalance {
	var order []string
	totals := make(map[string]decimal.Decimal)
	for _, l := range ledgers {
		for _, s := range ComputeGroupSummary(l.Group, l.Transactions) {
			if _, ok := totals[s.UserID]; !ok {
				order = append(order, s.UserID)
			}
			totals[s.UserID] = totals[s.UserID].Add(dec(s.Net))
		}
	}

	balances := make([]NetBalance, len(order))
	for i, id := range order {
		balances[i] = NetBalance{UserID: id, Net: cents(totals[id])}
	}
	return balances
}

type party struct {
	userID    string
	remaining decimal.Decimal
}

// SimplifyDebts matches debtors to creditors greedily. Both sides are sorted
// by size, largest first, and walked with one cursor each. Every step settles
// the smaller of the two open amounts and advances whichever cursor reaches
// zero. The result has at most creditors+debtors-1 entries; it is not
// guaranteed to be the minimum.
func SimplifyDebts(balances []NetBalance) []models.Settlement {
	var creditors, debtors []*party
	for _, b := range balances {
		net := dec(b.Net)
		switch {
		case net.GreaterThan(tolerance):
			creditors = append(creditors, &party{userID: b.UserID, remaining: net})
		case net.LessThan(tolerance.Neg()):
			debtors = append(debtors, &party{userID: b.UserID, remaining: net.Abs()})
		}
	}
	byRemaining := func(ps []*party) func(i, j int) bool {
		return func(i, j int) bool { return ps[i].remaining.GreaterThan(ps[j].remaining) }
	}
	sort.SliceStable(creditors, byRemaining(creditors))
	sort.SliceStable(debtors, byRemaining(debtors))

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor, debtor := creditors[i], debtors[j]
		amount := decimal.Min(creditor.remaining, debtor.remaining)

		if s, ok := suggest(debtor.userID, creditor.userID, amount); ok {
			settlements = append(settlements, s)
		}

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		if creditor.remaining.LessThan(tolerance) {
			i++
		}
		if debtor.remaining.LessThan(tolerance) {
			j++
		}
	}
	return settlements
}

// NetGroup settles one group's balances pairwise. Each debtor pays creditors
// in member order until the debtor's remaining debt is within the settled
// band. Every settlement is tagged with the group.
func NetGroup(ledger GroupLedger) []models.Settlement {
	var creditors, debtors []*party
	for _, s := range ComputeGroupSummary(ledger.Group, ledger.Transactions) {
		net := dec(s.Net)
		switch {
		case net.GreaterThan(tolerance):
			creditors = append(creditors, &party{userID: s.UserID, remaining: net})
		case net.LessThan(tolerance.Neg()):
			debtors = append(debtors, &party{userID: s.UserID, remaining: net.Abs()})
		}
	}

	var settlements []models.Settlement
	for _, debtor := range debtors {
		for _, creditor := range creditors {
			if debtor.remaining.LessThanOrEqual(tolerance) {
				break
			}
			amount := decimal.Min(creditor.remaining, debtor.remaining)
			s, ok := suggest(debtor.userID, creditor.userID, amount)
			if !ok {
				continue
			}
			s.GroupID = ledger.Group.ID
			s.GroupName = ledger.Group.Name
			settlements = append(settlements, s)

			creditor.remaining = creditor.remaining.Sub(amount)
			debtor.remaining = debtor.remaining.Sub(amount)
		}
	}
	return settlements
}

// suggest builds a settlement for amount, dropping anything below one cent.
func suggest(from, to string, amount decimal.Decimal) (models.Settlement, bool) {
	rounded := amount.Round(2)
	if rounded.LessThan(tolerance) {
		return models.Settlement{}, false
	}
	return models.Settlement{
		FromUserID: from,
		ToUserID:   to,
		Amount:     rounded.InexactFloat64(),
	}, true
}
