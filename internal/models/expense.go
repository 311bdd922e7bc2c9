package models

// SplitType determines how an expense total is divided among participants.
type SplitType string

const (
	// SplitEqual divides the total evenly; no per-participant input required.
	SplitEqual SplitType = "equal"
	// SplitExact uses caller-provided owed amounts that must sum to the total.
	SplitExact SplitType = "exact"
	// SplitPercentage uses caller-provided percentages plus their monetary
	// equivalents; both must check out independently.
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// ExpenseSplit is one participant's owed share of an expense.
type ExpenseSplit struct {
	// ParticipantID is the user who owes this share.
	ParticipantID string `json:"participant_id"`

	// OwedAmount is the share as a normalized decimal string (e.g. "33.34").
	// Invariant: never negative.
	OwedAmount string `json:"owed_amount"`

	// Percentage is this participant's share of the total in [0, 100].
	// Only meaningful for percentage splits; zero otherwise.
	Percentage float64 `json:"percentage,omitempty"`
}

// Expense represents a shared cost paid by one member of a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// Description is a short human-readable label (e.g. "Dinner").
	Description string `json:"description"`

	// TotalAmount is the full expense amount as a normalized decimal string.
	TotalAmount string `json:"total_amount"`

	// Currency is the ISO currency code (e.g. "USD", "JPY").
	Currency string `json:"currency"`

	// PayerID is the user who paid the total.
	PayerID string `json:"payer_id"`

	// ParticipantIDs lists everyone who shares this expense, in the order
	// supplied at creation. Order matters: equal splits hand out the
	// remainder one smallest unit at a time in this order.
	ParticipantIDs []string `json:"participant_ids"`

	// SplitType selects the strategy used to divide TotalAmount.
	SplitType SplitType `json:"split_type"`

	// Splits covers exactly ParticipantIDs, no duplicates, and sums to
	// TotalAmount within currency tolerance.
	Splits []ExpenseSplit `json:"splits"`

	// CreatedAt is the Unix timestamp when this version was written.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user who recorded this version.
	CreatedBy string `json:"created_by"`

	// DeletedAt is the Unix timestamp of a soft delete; 0 means live.
	// Deleted expenses are excluded from balances but kept for history.
	DeletedAt int64 `json:"deleted_at,omitempty"`

	// SupersededBy is the ID of the expense version that replaced this one;
	// empty means this is the current version.
	SupersededBy string `json:"superseded_by,omitempty"`
}

// Live reports whether the expense counts toward balances: not soft-deleted
// and not replaced by a newer version.
func (e *Expense) Live() bool {
	return e.DeletedAt == 0 && e.SupersededBy == ""
}
