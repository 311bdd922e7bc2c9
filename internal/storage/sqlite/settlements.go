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

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, payer_id, payee_id, amount, currency, note,
		                          created_at, created_by, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount, settlement.Currency, settlement.Note,
		settlement.CreatedAt, settlement.CreatedBy, settlement.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	err := s.q.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount, currency, note, created_at, created_by, deleted_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
		&settlement.Amount, &settlement.Currency, &settlement.Note,
		&settlement.CreatedAt, &settlement.CreatedBy, &settlement.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// SoftDeleteSettlement marks a settlement deleted.
func (s *SQLiteStore) SoftDeleteSettlement(ctx context.Context, settlementID string, deletedAt int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE settlements SET deleted_at = ? WHERE id = ? AND deleted_at = 0",
		deletedAt, settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: settlement %s is missing or already deleted", storage.ErrNotFound, settlementID)
	}
	return nil
}

// ListGroupSettlements returns the group's live settlements, oldest first.
func (s *SQLiteStore) ListGroupSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount, currency, note, created_at, created_by, deleted_at
		 FROM settlements
		 WHERE group_id = ? AND deleted_at = 0
		 ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var settlement models.Settlement
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
			&settlement.Amount, &settlement.Currency, &settlement.Note,
			&settlement.CreatedAt, &settlement.CreatedBy, &settlement.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
