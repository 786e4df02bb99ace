package calculator

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

var testTime = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func expense(groupID, payer string, amount float64, participants ...string) models.Transaction {
	splits := make([]models.SplitEntry, len(participants))
	for i, p := range participants {
		splits[i] = models.SplitEntry{ParticipantID: p}
	}
	return models.Transaction{
		Kind:        models.KindExpense,
		Amount:      amount,
		OccurredAt:  testTime,
		PayerID:     payer,
		GroupID:     groupID,
		SplitPolicy: models.SplitEqual,
		Splits:      splits,
	}
}

func settlement(groupID, from, to string, amount float64) models.Transaction {
	return models.Transaction{
		Kind:        models.KindSettlement,
		Amount:      amount,
		OccurredAt:  testTime,
		PayerID:     from,
		RecipientID: to,
		GroupID:     groupID,
		SplitPolicy: models.SplitExact,
	}
}

func group(id string, members ...string) models.Group {
	return models.Group{ID: id, Name: "Group " + id, Currency: "USD", Members: members}
}

func summaryByUser(summaries []models.MemberSummary) map[string]models.MemberSummary {
	m := make(map[string]models.MemberSummary, len(summaries))
	for _, s := range summaries {
		m[s.UserID] = s
	}
	return m
}

func totalAmount(settlements []models.Settlement) float64 {
	var total float64
	for _, s := range settlements {
		total += s.Amount
	}
	return Round(total)
}
