package ledger

import "errors"

// Validation errors are structural: they are reported before anything is
// persisted and are never partially applied. Callers match them with
// errors.Is; wrapped messages carry the offending participant or field.
var (
	// ErrMissingSplits is returned when a split type requires caller-provided
	// splits and none (or not all) were supplied.
	ErrMissingSplits = errors.New("missing splits")

	// ErrInvalidSplitUser is returned when a split references a user who is
	// not among the expense participants.
	ErrInvalidSplitUser = errors.New("split references a non-participant")

	// ErrDuplicateSplitUser is returned when the same participant appears in
	// more than one split.
	ErrDuplicateSplitUser = errors.New("duplicate split participant")

	// ErrInvalidSplitTotal is returned when split amounts do not sum to the
	// expense total within the currency's tolerance.
	ErrInvalidSplitTotal = errors.New("split amounts do not sum to the total")

	// ErrInvalidPercentageTotal is returned when percentages fall outside
	// [0, 100] or do not sum to 100 within ±0.001.
	ErrInvalidPercentageTotal = errors.New("percentages do not sum to 100")

	// ErrDepartedParticipant is returned when a write references a user who
	// is no longer an active member of the group.
	ErrDepartedParticipant = errors.New("participant is not an active group member")

	// ErrTransactionLocked is returned when a write targets a transaction
	// that references a departed member and is therefore frozen.
	ErrTransactionLocked = errors.New("transaction is locked")

	// ErrBalanceConservation signals that aggregated balances did not sum to
	// zero. It is never user-caused: it indicates an arithmetic defect and
	// must abort the operation rather than be silently corrected.
	ErrBalanceConservation = errors.New("balance conservation violated")
)
