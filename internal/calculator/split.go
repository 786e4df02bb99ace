package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ResolveShares computes how much of tx each participant owes.
//
// EQUAL divides the amount by the number of split entries. A transaction with
// no entries is split across members when it belongs to a group, and charged
// entirely to the payer when it is personal. EXACT uses each entry's amount and
// PERCENTAGE scales the total by each entry's percentage. Entries missing the
// field their policy needs resolve to a zero share.
//
// SETTLEMENT transactions are transfers, not split events, and resolve to no
// shares. The input is assumed validated; nothing here returns an error.
func ResolveShares(tx models.Transaction, members []string) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)
	if tx.Kind == models.KindSettlement {
		return shares
	}
	amount := dec(tx.Amount)

	switch tx.SplitPolicy {
	case models.SplitEqual, "":
		participants := equalParticipants(tx, members)
		if len(participants) == 0 {
			return shares
		}
		share := amount.Div(decimal.NewFromInt(int64(len(participants))))
		for _, p := range participants {
			shares[p] = shares[p].Add(share)
		}

	case models.SplitExact:
		for _, s := range tx.Splits {
			share := decimal.Zero
			if s.ExactAmount != nil {
				share = dec(*s.ExactAmount)
			}
			shares[s.ParticipantID] = shares[s.ParticipantID].Add(share)
		}

	case models.SplitPercentage:
		for _, s := range tx.Splits {
			share := decimal.Zero
			if s.Percentage != nil {
				share = amount.Mul(dec(*s.Percentage)).Div(hundred)
			}
			shares[s.ParticipantID] = shares[s.ParticipantID].Add(share)
		}
	}

	return shares
}

// equalParticipants returns who shares an EQUAL split, one element per share.
func equalParticipants(tx models.Transaction, members []string) []string {
	if len(tx.Splits) > 0 {
		participants := make([]string, 0, len(tx.Splits))
		for _, s := range tx.Splits {
			if s.ParticipantID != "" {
				participants = append(participants, s.ParticipantID)
			}
		}
		return participants
	}
	if tx.IsPersonal() {
		if tx.PayerID == "" {
			return nil
		}
		return []string{tx.PayerID}
	}
	return members
}
