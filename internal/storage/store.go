// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ListOptions bounds a transaction listing. Zero values mean unbounded.
type ListOptions struct {
	// Since drops transactions that occurred before it.
	Since time.Time

	// Limit and Offset page through results, newest first.
	Limit  int
	Offset int
}

// Store defines the persistence operations the services depend on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	TransactionStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdateUser saves the user's display name and preferences.
	UpdateUser(ctx context.Context, user *models.User) error
}

// GroupStore persists groups and their membership history.
type GroupStore interface {
	// CreateGroup persists a new group. The group.ID field will be populated
	// by the store and the creator is added as the first member.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with its current and former members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember returns every group userID currently belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup saves the group's name and currency. Membership is
	// changed through AddGroupMembers and RemoveGroupMember only.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// AddGroupMembers adds users to a group, re-activating former members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// RemoveGroupMember marks a member as having left. Their history stays.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
}

// TransactionStore persists ledger transactions. Transactions are immutable
// once stored; they can only be deleted.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, txID string) error

	// ListTransactionsByGroup returns transactions tagged with groupID.
	ListTransactionsByGroup(ctx context.Context, groupID string, opts ListOptions) ([]models.Transaction, error)

	// ListTransactionsByUser returns transactions where userID is payer,
	// recipient or split participant.
	ListTransactionsByUser(ctx context.Context, userID string, opts ListOptions) ([]models.Transaction, error)
}
