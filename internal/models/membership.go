package models

// MembershipStatus is the lifecycle state of a user within a group.
type MembershipStatus string

const (
	// MemberActive members participate in new expenses and settlements.
	MemberActive MembershipStatus = "active"
	// MemberPending members have been invited but not yet joined.
	MemberPending MembershipStatus = "pending"
	// MemberArchived members have left the group. Historical transactions
	// that reference them become locked.
	MemberArchived MembershipStatus = "archived"
)

// Valid reports whether s is one of the known membership statuses.
func (s MembershipStatus) Valid() bool {
	switch s {
	case MemberActive, MemberPending, MemberArchived:
		return true
	}
	return false
}

// Membership is the authoritative join between users and groups.
// Exactly one row per (user_id, group_id).
//
// Only active memberships count toward lock evaluation and split
// eligibility; pending and archived members cannot be referenced by new
// transactions.
type Membership struct {
	// UserID is the member's user ID.
	UserID string `json:"user_id"`

	// GroupID is the group the user belongs to.
	GroupID string `json:"group_id"`

	// Status is the membership lifecycle state.
	Status MembershipStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64 `json:"updated_at"`
}

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Roommates", "Ski Trip").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user who created the group.
	CreatedBy string `json:"created_by"`
}
