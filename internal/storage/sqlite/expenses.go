package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// CreateExpense persists a new expense with its participants and splits.
// Participant order is preserved via an explicit position column: the
// equal-split remainder distribution depends on it.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.InTx(ctx, func(txStore storage.Store) error {
		tx := txStore.(*SQLiteStore)

		_, err := tx.q.ExecContext(ctx,
			`INSERT INTO expenses (id, group_id, description, total_amount, currency, payer_id,
			                       split_type, created_at, created_by, deleted_at, superseded_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.Description, expense.TotalAmount, expense.Currency,
			expense.PayerID, string(expense.SplitType), expense.CreatedAt, expense.CreatedBy,
			expense.DeletedAt, expense.SupersededBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i, userID := range expense.ParticipantIDs {
			_, err = tx.q.ExecContext(ctx,
				"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
				expense.ID, userID, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}

		for _, split := range expense.Splits {
			_, err = tx.q.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, user_id, owed_amount, percentage) VALUES (?, ?, ?, ?)",
				expense.ID, split.ParticipantID, split.OwedAmount, split.Percentage,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense by ID, including participants and splits
// in their original order. Any version is returned, live or not.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.q.QueryRowContext(ctx,
		`SELECT id, group_id, description, total_amount, currency, payer_id,
		        split_type, created_at, created_by, deleted_at, superseded_by
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalAmount,
		&expense.Currency, &expense.PayerID, &splitType, &expense.CreatedAt,
		&expense.CreatedBy, &expense.DeletedAt, &expense.SupersededBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = models.SplitType(splitType)

	if err := s.loadExpenseDetails(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// loadExpenseDetails fills ParticipantIDs and Splits, both ordered by the
// stored participant position.
func (s *SQLiteStore) loadExpenseDetails(ctx context.Context, expense *models.Expense) error {
	rows, err := s.q.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	expense.ParticipantIDs = nil
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.ParticipantIDs = append(expense.ParticipantIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	splitRows, err := s.q.QueryContext(ctx,
		`SELECT sp.user_id, sp.owed_amount, sp.percentage
		 FROM expense_splits sp
		 JOIN expense_participants p ON p.expense_id = sp.expense_id AND p.user_id = sp.user_id
		 WHERE sp.expense_id = ?
		 ORDER BY p.position`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	expense.Splits = nil
	for splitRows.Next() {
		var split models.ExpenseSplit
		if err := splitRows.Scan(&split.ParticipantID, &split.OwedAmount, &split.Percentage); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// SupersedeExpense inserts the replacement version and marks the old row
// superseded by it in one transaction. Fails if the old row is already
// deleted or superseded.
func (s *SQLiteStore) SupersedeExpense(ctx context.Context, oldID string, replacement *models.Expense) error {
	return s.InTx(ctx, func(txStore storage.Store) error {
		tx := txStore.(*SQLiteStore)

		if err := tx.CreateExpense(ctx, replacement); err != nil {
			return err
		}

		res, err := tx.q.ExecContext(ctx,
			"UPDATE expenses SET superseded_by = ? WHERE id = ? AND deleted_at = 0 AND superseded_by = ''",
			replacement.ID, oldID,
		)
		if err != nil {
			return fmt.Errorf("failed to supersede expense: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check superseded rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("expense not current: %s", oldID)
		}
		return nil
	})
}

// SoftDeleteExpense marks an expense deleted. The row and its splits are
// retained for history but excluded from balance aggregation.
func (s *SQLiteStore) SoftDeleteExpense(ctx context.Context, expenseID string, deletedAt int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE expenses SET deleted_at = ? WHERE id = ? AND deleted_at = 0",
		deletedAt, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s is missing or already deleted", storage.ErrNotFound, expenseID)
	}
	return nil
}

// ListGroupExpenses returns the group's live, current expense versions,
// oldest first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, group_id, description, total_amount, currency, payer_id,
		        split_type, created_at, created_by, deleted_at, superseded_by
		 FROM expenses
		 WHERE group_id = ? AND deleted_at = 0 AND superseded_by = ''
		 ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var expense models.Expense
		var splitType string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalAmount,
			&expense.Currency, &expense.PayerID, &splitType, &expense.CreatedAt,
			&expense.CreatedBy, &expense.DeletedAt, &expense.SupersededBy); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if err := s.loadExpenseDetails(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}
