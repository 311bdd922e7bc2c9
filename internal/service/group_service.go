package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// ErrInvalidGroupName is returned when a group is created with an empty
// name.
var ErrInvalidGroupName = errors.New("group name must not be empty")

// GroupService manages groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage
// backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group and makes the creator its first active
// member, in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, userID, name string) (*models.Group, error) {
	if name == "" {
		return nil, ErrInvalidGroupName
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: userID,
	}
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		return tx.UpsertMembership(ctx, &models.Membership{
			GroupID: group.ID,
			UserID:  userID,
			Status:  models.MemberActive,
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("group created", "group_id", group.ID, "name", group.Name, "created_by", userID)
	return group, nil
}

// GetGroup returns a group the requester is an active member of.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireActive(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListMembers returns all memberships of a group, every status.
func (s *GroupService) ListMembers(ctx context.Context, userID, groupID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		memberships, err = tx.ListMemberships(ctx, groupID)
		if err != nil {
			return err
		}
		if !ledger.ActiveSet(memberships).Has(userID) {
			return ErrNotGroupMember
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// AddMember makes a user an active member of the group. Re-adding a
// departed member reactivates them, which also unlocks the transactions
// that referenced them.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID, memberID string) error {
	return s.setStatus(ctx, userID, groupID, memberID, models.MemberActive)
}

// InviteMember records a pending membership. Pending members do not
// count as active for lock evaluation or split validation.
func (s *GroupService) InviteMember(ctx context.Context, userID, groupID, memberID string) error {
	return s.setStatus(ctx, userID, groupID, memberID, models.MemberPending)
}

// ArchiveMember marks a member as departed. Their transaction history
// stays in the ledger; transactions referencing them become locked.
func (s *GroupService) ArchiveMember(ctx context.Context, userID, groupID, memberID string) error {
	return s.setStatus(ctx, userID, groupID, memberID, models.MemberArchived)
}

func (s *GroupService) setStatus(ctx context.Context, userID, groupID, memberID string, status models.MembershipStatus) error {
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if err := s.requireActive(ctx, tx, groupID, userID); err != nil {
			return err
		}
		member, err := tx.GetUserByID(ctx, memberID)
		if err != nil {
			return err
		}
		if member == nil {
			return fmt.Errorf("%w: user %s", storage.ErrNotFound, memberID)
		}
		return tx.UpsertMembership(ctx, &models.Membership{
			GroupID: groupID,
			UserID:  memberID,
			Status:  status,
		})
	})
	if err != nil {
		return err
	}
	slog.Info("membership updated", "group_id", groupID, "member_id", memberID, "status", status)
	return nil
}

func (s *GroupService) requireActive(ctx context.Context, store storage.Store, groupID, userID string) error {
	m, err := store.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if m == nil || m.Status != models.MemberActive {
		return ErrNotGroupMember
	}
	return nil
}
