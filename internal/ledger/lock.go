package ledger

import (
	"fmt"

	"github.com/tallyhq/tally/internal/models"
)

// ActiveMembers is the set of user IDs currently active in a group.
//
// Lock status is a stateless predicate over this set and a transaction's
// participants. It is recomputed on every invocation and must never be
// cached or stored: a stored flag goes stale the moment a membership
// changes. The set must be read inside the same storage transaction as
// the write it guards.
type ActiveMembers map[string]struct{}

// ActiveSet extracts the active user IDs from a group's memberships.
func ActiveSet(memberships []models.Membership) ActiveMembers {
	active := make(ActiveMembers, len(memberships))
	for _, m := range memberships {
		if m.Status == models.MemberActive {
			active[m.UserID] = struct{}{}
		}
	}
	return active
}

// Has reports whether the user is an active member.
func (m ActiveMembers) Has(userID string) bool {
	_, ok := m[userID]
	return ok
}

// ExpenseLocked reports whether the expense is frozen: true iff any
// participant is no longer an active member of the group.
func ExpenseLocked(e *models.Expense, active ActiveMembers) bool {
	for _, id := range e.ParticipantIDs {
		if !active.Has(id) {
			return true
		}
	}
	return false
}

// SettlementLocked reports whether the settlement is frozen: true iff the
// payer or the payee is no longer an active member.
func SettlementLocked(s *models.Settlement, active ActiveMembers) bool {
	return !active.Has(s.PayerID) || !active.Has(s.PayeeID)
}

// CheckExpenseWritable rejects a new or edited expense that references any
// user who is not currently active, including the payer.
func CheckExpenseWritable(e *models.Expense, active ActiveMembers) error {
	if !active.Has(e.PayerID) {
		return fmt.Errorf("%w: payer %s", ErrDepartedParticipant, e.PayerID)
	}
	for _, id := range e.ParticipantIDs {
		if !active.Has(id) {
			return fmt.Errorf("%w: %s", ErrDepartedParticipant, id)
		}
	}
	return nil
}

// CheckSettlementWritable rejects a new settlement whose payer or payee is
// not currently active.
func CheckSettlementWritable(s *models.Settlement, active ActiveMembers) error {
	if !active.Has(s.PayerID) {
		return fmt.Errorf("%w: payer %s", ErrDepartedParticipant, s.PayerID)
	}
	if !active.Has(s.PayeeID) {
		return fmt.Errorf("%w: payee %s", ErrDepartedParticipant, s.PayeeID)
	}
	return nil
}
