package service

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		MonthlyLimit: u.MonthlyLimit,
		Currency:     u.Currency,
		CreatedAt:    api.NewTimestamp(time.Unix(u.CreatedAt, 0)),
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:            g.ID,
		Name:          g.Name,
		Currency:      g.Currency,
		CreatorID:     g.CreatorID,
		Members:       g.Members,
		FormerMembers: g.FormerMembers,
		CreatedAt:     g.CreatedAt,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	splits := make([]api.SplitEntry, len(t.Splits))
	for i, s := range t.Splits {
		splits[i] = api.SplitEntry{
			ParticipantID: s.ParticipantID,
			ExactAmount:   s.ExactAmount,
			Percentage:    s.Percentage,
			Adjustment:    s.Adjustment,
		}
	}
	return &api.Transaction{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Description: t.Description,
		Amount:      t.Amount,
		OccurredAt:  api.NewTimestamp(t.OccurredAt),
		PayerID:     t.PayerID,
		RecipientID: t.RecipientID,
		GroupID:     t.GroupID,
		SplitPolicy: string(t.SplitPolicy),
		Splits:      splits,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
}

func toAPITransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = toAPITransaction(&txs[i])
	}
	return out
}

func fromAPISplits(entries []api.SplitEntry) []models.SplitEntry {
	if len(entries) == 0 {
		return nil
	}
	splits := make([]models.SplitEntry, len(entries))
	for i, e := range entries {
		splits[i] = models.SplitEntry{
			ParticipantID: e.ParticipantID,
			ExactAmount:   e.ExactAmount,
			Percentage:    e.Percentage,
			Adjustment:    e.Adjustment,
		}
	}
	return splits
}

// names maps user IDs to display names; unknown users map to "".
type names map[string]*models.User

func (n names) of(userID string) string {
	if u, ok := n[userID]; ok {
		return u.DisplayName
	}
	return ""
}

func (n names) ref(userID string) api.UserRef {
	return api.UserRef{UserID: userID, DisplayName: n.of(userID)}
}

func toAPIMemberSummary(m models.MemberSummary, n names) *api.MemberSummary {
	return &api.MemberSummary{
		UserID:      m.UserID,
		DisplayName: n.of(m.UserID),
		Paid:        m.Paid,
		Owed:        m.Owed,
		Net:         m.Net,
		Status:      string(m.Status),
	}
}

func toAPISettlements(settlements []models.Settlement, n names) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			From:      n.ref(s.FromUserID),
			To:        n.ref(s.ToUserID),
			Amount:    s.Amount,
			GroupID:   s.GroupID,
			GroupName: s.GroupName,
		}
	}
	return out
}
