package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const transactionColumns = `id, kind, description, amount, occurred_at, payer_id, recipient_id, group_id, split_policy, category, created_at`

// CreateTransaction persists a transaction and its split entries.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = time.Unix(t.CreatedAt, 0)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Description, t.Amount, t.OccurredAt.Unix(), t.PayerID,
		nullString(t.RecipientID), nullString(t.GroupID), string(t.SplitPolicy), t.Category, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for i, entry := range t.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_entries (transaction_id, position, participant_id, exact_amount, percentage, adjustment)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, i, entry.ParticipantID,
			nullFloat(entry.ExactAmount), nullFloat(entry.Percentage), nullFloat(entry.Adjustment),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID, including its split entries.
func (s *SQLiteStore) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, txID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	txs := []models.Transaction{t}
	if err := s.loadSplits(ctx, txs); err != nil {
		return nil, err
	}
	return &txs[0], nil
}

// DeleteTransaction removes a transaction and its split entries.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, txID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_entries WHERE transaction_id = ?", txID); err != nil {
		return fmt.Errorf("failed to delete split entries: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTransactionsByGroup retrieves transactions tagged with groupID, newest first.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string, opts storage.ListOptions) ([]models.Transaction, error) {
	return s.listTransactions(ctx, "group_id = ?", []any{groupID}, opts)
}

// ListTransactionsByUser retrieves transactions userID pays, receives or
// participates in, newest first.
func (s *SQLiteStore) ListTransactionsByUser(ctx context.Context, userID string, opts storage.ListOptions) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		"(payer_id = ? OR recipient_id = ? OR id IN (SELECT transaction_id FROM split_entries WHERE participant_id = ?))",
		[]any{userID, userID, userID}, opts)
}

func (s *SQLiteStore) listTransactions(ctx context.Context, where string, args []any, opts storage.ListOptions) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where
	if !opts.Since.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, opts.Since.Unix())
	}
	query += " ORDER BY occurred_at DESC, created_at DESC, id"
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	if err := s.loadSplits(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	var kind, policy string
	var occurredAt int64
	var recipientID, groupID sql.NullString

	err := row.Scan(&t.ID, &kind, &t.Description, &t.Amount, &occurredAt, &t.PayerID,
		&recipientID, &groupID, &policy, &t.Category, &t.CreatedAt)
	if err != nil {
		return t, err
	}

	t.Kind = models.Kind(kind)
	t.SplitPolicy = models.SplitPolicy(policy)
	t.OccurredAt = time.Unix(occurredAt, 0)
	t.RecipientID = recipientID.String
	t.GroupID = groupID.String
	return t, nil
}

// loadSplits fills in split entries for txs in one query and normalizes
// each transaction before it leaves the store.
func (s *SQLiteStore) loadSplits(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	index := make(map[string]int, len(txs))
	ids := make([]string, len(txs))
	for i, t := range txs {
		index[t.ID] = i
		ids[i] = t.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, participant_id, exact_amount, percentage, adjustment
		 FROM split_entries WHERE transaction_id IN (`+placeholders(len(ids))+`)
		 ORDER BY transaction_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get split entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID string
		var entry models.SplitEntry
		var exact, percentage, adjustment sql.NullFloat64
		if err := rows.Scan(&txID, &entry.ParticipantID, &exact, &percentage, &adjustment); err != nil {
			return fmt.Errorf("failed to scan split entry: %w", err)
		}
		entry.ExactAmount = floatPtr(exact)
		entry.Percentage = floatPtr(percentage)
		entry.Adjustment = floatPtr(adjustment)

		i := index[txID]
		txs[i].Splits = append(txs[i].Splits, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate split entries: %w", err)
	}

	for i := range txs {
		txs[i].Normalize()
	}
	return nil
}
