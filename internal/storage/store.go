// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tallyhq/tally/internal/models"
)

// ErrNotFound is wrapped by store implementations when a requested record
// does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Writes that depend on reads (membership checks, lock evaluation, split
// validation) must run inside InTx so the inputs cannot change between
// validation and persistence.
type Store interface {
	// InTx runs fn against a transaction-bound view of the store. If fn
	// returns an error the transaction is rolled back; otherwise it is
	// committed. Calling InTx on an already transaction-bound store reuses
	// the open transaction.
	InTx(ctx context.Context, fn func(Store) error) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns the user with the given email, or nil if none.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns the user with the given ID, or nil if none.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group. The group.ID field will be
	// populated by the store if empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpsertMembership creates or updates the (user, group) membership row.
	UpsertMembership(ctx context.Context, m *models.Membership) error
	// GetMembership retrieves one membership, or nil if none exists.
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)
	// ListMemberships returns all memberships of a group, every status.
	ListMemberships(ctx context.Context, groupID string) ([]models.Membership, error)

	// CreateExpense persists a new expense with its participants and splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense retrieves an expense by ID, any version.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// SupersedeExpense inserts the replacement version and marks the old
	// row superseded by it, atomically.
	SupersedeExpense(ctx context.Context, oldID string, replacement *models.Expense) error
	// SoftDeleteExpense marks an expense deleted; the row is retained for
	// history and excluded from balance aggregation.
	SoftDeleteExpense(ctx context.Context, expenseID string, deletedAt int64) error
	// ListGroupExpenses returns the group's live, current expense versions.
	ListGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	// SoftDeleteSettlement marks a settlement deleted.
	SoftDeleteSettlement(ctx context.Context, settlementID string, deletedAt int64) error
	// ListGroupSettlements returns the group's live settlements.
	ListGroupSettlements(ctx context.Context, groupID string) ([]models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
