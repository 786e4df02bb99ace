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

// CreateGroup persists a new group and its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Currency == "" {
		group.Currency = "USD"
	}

	// Creator always comes first; duplicates are dropped.
	members := make([]string, 0, len(group.Members)+1)
	seen := make(map[string]bool)
	for _, id := range append([]string{group.CreatorID}, group.Members...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, currency, creator_id, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Currency, group.CreatorID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, id := range members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			group.ID, id, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Members = members
	group.FormerMembers = nil
	return nil
}

// GetGroup retrieves a group by ID, including current and former members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, creator_id, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.CreatorID, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, left_at FROM group_members WHERE group_id = ? ORDER BY joined_at, rowid",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	group.Members, group.FormerMembers = nil, nil
	for rows.Next() {
		var userID string
		var leftAt sql.NullInt64
		if err := rows.Scan(&userID, &leftAt); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		if leftAt.Valid {
			group.FormerMembers = append(group.FormerMembers, userID)
		} else {
			group.Members = append(group.Members, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// ListGroupsByMember retrieves the groups userID currently belongs to, oldest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.currency, g.creator_id, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? AND m.left_at IS NULL
		 ORDER BY g.created_at, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Currency, &group.CreatorID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for _, group := range groups {
		if err := s.loadMembers(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup updates the group's name and currency.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, currency = ? WHERE id = ?",
		group.Name, group.Currency, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated group: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

// AddGroupMembers adds users to a group. A former member who is added
// again becomes a current member.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, id := range userIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO UPDATE SET left_at = NULL`,
			groupID, id, now,
		)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveGroupMember marks userID as having left groupID.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET left_at = ? WHERE group_id = ? AND user_id = ? AND left_at IS NULL",
		time.Now().Unix(), groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s of group %s: %w", userID, groupID, storage.ErrNotFound)
	}
	return nil
}
