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

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at, created_by) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedAt, group.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, created_at, created_by FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.CreatedBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// UpsertMembership creates or updates the (user, group) membership row.
func (s *SQLiteStore) UpsertMembership(ctx context.Context, m *models.Membership) error {
	now := time.Now().Unix()
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO memberships (group_id, user_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id)
		 DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		m.GroupID, m.UserID, string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// GetMembership retrieves one membership, or nil if none exists.
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	var status string
	err := s.q.QueryRowContext(ctx,
		`SELECT group_id, user_id, status, created_at, updated_at
		 FROM memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&m.GroupID, &m.UserID, &status, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	m.Status = models.MembershipStatus(status)
	return m, nil
}

// ListMemberships returns all memberships of a group, every status.
func (s *SQLiteStore) ListMemberships(ctx context.Context, groupID string) ([]models.Membership, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT group_id, user_id, status, created_at, updated_at
		 FROM memberships WHERE group_id = ? ORDER BY user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		var status string
		if err := rows.Scan(&m.GroupID, &m.UserID, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Status = models.MembershipStatus(status)
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return memberships, nil
}
