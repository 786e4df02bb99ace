package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

type position struct {
	paid decimal.Decimal
	owed decimal.Decimal
	seen bool
}

// ComputeGroupSummary folds a group's transactions into one MemberSummary per
// member. Current members are always reported, in member order. Former
// members follow them, but only when their history touches the group.
//
// The payer of any transaction is credited the full amount as paid.
// EXPENSE and INCOME charge each participant their resolved share.
// A SETTLEMENT charges its recipient the amount, which moves both sides of
// the transfer toward zero, and applies any explicit per-entry Adjustment.
// References to users who were never members contribute nothing.
func ComputeGroupSummary(group models.Group, txs []models.Transaction) []models.MemberSummary {
	order := make([]string, 0, len(group.Members)+len(group.FormerMembers))
	positions := make(map[string]*position, cap(order))
	for _, id := range group.Members {
		if _, ok := positions[id]; !ok {
			positions[id] = &position{seen: true}
			order = append(order, id)
		}
	}
	for _, id := range group.FormerMembers {
		if _, ok := positions[id]; !ok {
			positions[id] = &position{}
			order = append(order, id)
		}
	}

	pay := func(id string, amount decimal.Decimal) {
		if p, ok := positions[id]; ok {
			p.paid = p.paid.Add(amount)
			p.seen = true
		}
	}
	owe := func(id string, amount decimal.Decimal) {
		if p, ok := positions[id]; ok {
			p.owed = p.owed.Add(amount)
			p.seen = true
		}
	}

	for i := range txs {
		tx := txs[i]
		if tx.GroupID != group.ID {
			continue
		}
		amount := dec(tx.Amount)
		pay(tx.PayerID, amount)

		if tx.Kind == models.KindSettlement {
			if tx.RecipientID != "" {
				owe(tx.RecipientID, amount)
			}
			for _, s := range tx.Splits {
				if s.Adjustment != nil {
					owe(s.ParticipantID, dec(*s.Adjustment))
				}
			}
			continue
		}

		for id, share := range ResolveShares(tx, group.Members) {
			owe(id, share)
		}
	}

	summaries := make([]models.MemberSummary, 0, len(order))
	for _, id := range order {
		p := positions[id]
		if !p.seen {
			continue
		}
		net := cents(p.paid.Sub(p.owed))
		summaries = append(summaries, models.MemberSummary{
			UserID: id,
			Paid:   cents(p.paid),
			Owed:   cents(p.owed),
			Net:    net,
			Status: StatusOf(net),
		})
	}
	return summaries
}
