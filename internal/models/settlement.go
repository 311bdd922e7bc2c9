package models

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// PayerID is the user who paid (debtor settling up).
	PayerID string `json:"payer_id"`

	// PayeeID is the user who received payment (creditor being paid).
	// Invariant: PayerID != PayeeID.
	PayeeID string `json:"payee_id"`

	// Amount is the payment amount as a normalized decimal string.
	Amount string `json:"amount"`

	// Currency is the ISO currency code the payment was made in.
	Currency string `json:"currency"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by"`

	// DeletedAt is the Unix timestamp of a soft delete; 0 means live.
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// Live reports whether the settlement counts toward balances.
func (s *Settlement) Live() bool {
	return s.DeletedAt == 0
}
