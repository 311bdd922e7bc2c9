// Package ledger implements the expense ledger engine: split strategies,
// balance aggregation, debt simplification, and transaction locking.
//
// Everything here is pure, synchronous computation over plain data. The
// same inputs always produce the same outputs, so the engine can be called
// concurrently for different groups with no coordination. Concurrency
// control for writes belongs to the storage layer: the engine must run
// inside the same transaction that read its inputs.
package ledger

import (
	"fmt"
	"math"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/money"
)

// SplitInput carries everything a strategy needs to validate and compute
// the splits of one expense.
type SplitInput struct {
	// TotalAmount is the expense total as a decimal string.
	TotalAmount string

	// Currency is the ISO currency code of the total and all splits.
	Currency string

	// ParticipantIDs lists who shares the expense, in caller order.
	// The equal strategy distributes its remainder in this order.
	ParticipantIDs []string

	// Splits holds caller-provided amounts/percentages. Required for exact
	// and percentage splits; ignored by the equal strategy.
	Splits []models.ExpenseSplit
}

// Strategy validates and computes splits for one split type.
//
// Calculate must only be invoked after Validate succeeds, and is pure:
// no side effects, deterministic given identical inputs.
type Strategy interface {
	Validate(in SplitInput) error
	Calculate(in SplitInput) ([]models.ExpenseSplit, error)
}

// StrategyFor returns the strategy implementing the given split type.
func StrategyFor(t models.SplitType) (Strategy, error) {
	switch t {
	case models.SplitEqual:
		return equalStrategy{}, nil
	case models.SplitExact:
		return exactStrategy{}, nil
	case models.SplitPercentage:
		return percentageStrategy{}, nil
	}
	return nil, fmt.Errorf("unknown split type %q", t)
}

// validateCommon checks the parts shared by all strategies: a well-formed
// non-negative total and a non-empty, duplicate-free participant list.
func validateCommon(in SplitInput) (totalUnits int64, err error) {
	totalUnits, err = money.ToSmallestUnit(in.TotalAmount, in.Currency)
	if err != nil {
		return 0, err
	}
	if totalUnits < 0 {
		return 0, fmt.Errorf("%w: total %q must not be negative", money.ErrInvalidAmount, in.TotalAmount)
	}
	if len(in.ParticipantIDs) == 0 {
		return 0, fmt.Errorf("%w: expense needs at least one participant", ErrMissingSplits)
	}
	seen := make(map[string]bool, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if seen[id] {
			return 0, fmt.Errorf("%w: participant %s listed twice", ErrDuplicateSplitUser, id)
		}
		seen[id] = true
	}
	return totalUnits, nil
}

// validateProvidedSplits checks caller-provided splits against the
// participant list: present, covering, duplicate-free, and non-negative.
// Returns owed smallest units keyed by participant.
func validateProvidedSplits(in SplitInput) (map[string]int64, error) {
	if len(in.Splits) == 0 {
		return nil, fmt.Errorf("%w: split type requires per-participant amounts", ErrMissingSplits)
	}

	participants := make(map[string]bool, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		participants[id] = true
	}

	owed := make(map[string]int64, len(in.Splits))
	for _, s := range in.Splits {
		if _, dup := owed[s.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSplitUser, s.ParticipantID)
		}
		if !participants[s.ParticipantID] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSplitUser, s.ParticipantID)
		}
		units, err := money.ToSmallestUnit(s.OwedAmount, in.Currency)
		if err != nil {
			return nil, err
		}
		if units < 0 {
			return nil, fmt.Errorf("%w: owed amount %q for %s must not be negative",
				money.ErrInvalidAmount, s.OwedAmount, s.ParticipantID)
		}
		owed[s.ParticipantID] = units
	}

	for _, id := range in.ParticipantIDs {
		if _, ok := owed[id]; !ok {
			return nil, fmt.Errorf("%w: no split for participant %s", ErrMissingSplits, id)
		}
	}
	return owed, nil
}

// finalize normalizes caller-provided splits into participant order.
func finalize(in SplitInput, withPercentage bool) ([]models.ExpenseSplit, error) {
	byUser := make(map[string]models.ExpenseSplit, len(in.Splits))
	for _, s := range in.Splits {
		byUser[s.ParticipantID] = s
	}

	out := make([]models.ExpenseSplit, 0, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		s := byUser[id]
		amount, err := money.Normalize(s.OwedAmount, in.Currency)
		if err != nil {
			return nil, err
		}
		split := models.ExpenseSplit{ParticipantID: id, OwedAmount: amount}
		if withPercentage {
			split.Percentage = s.Percentage
		}
		out = append(out, split)
	}
	return out, nil
}

// equalStrategy divides the total evenly. The integer quotient goes to
// every participant; the remainder is handed out one smallest unit at a
// time in the original participant order, so the shares always sum to the
// total exactly and no two shares differ by more than one smallest unit.
type equalStrategy struct{}

func (equalStrategy) Validate(in SplitInput) error {
	_, err := validateCommon(in)
	return err
}

func (equalStrategy) Calculate(in SplitInput) ([]models.ExpenseSplit, error) {
	totalUnits, err := validateCommon(in)
	if err != nil {
		return nil, err
	}

	n := int64(len(in.ParticipantIDs))
	quotient := totalUnits / n
	remainder := totalUnits % n

	out := make([]models.ExpenseSplit, 0, n)
	for i, id := range in.ParticipantIDs {
		share := quotient
		if int64(i) < remainder {
			share++
		}
		amount, err := money.FromSmallestUnit(share, in.Currency)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ExpenseSplit{ParticipantID: id, OwedAmount: amount})
	}
	return out, nil
}

// exactStrategy uses caller-provided owed amounts. The participant set and
// split set must match exactly, and the amounts must sum to the total
// within one smallest unit of the currency.
type exactStrategy struct{}

func (exactStrategy) Validate(in SplitInput) error {
	totalUnits, err := validateCommon(in)
	if err != nil {
		return err
	}
	owed, err := validateProvidedSplits(in)
	if err != nil {
		return err
	}

	var sum int64
	for _, units := range owed {
		sum += units
	}
	if diff := sum - totalUnits; diff > 1 || diff < -1 {
		return fmt.Errorf("%w: splits sum to %d units, total is %d units", ErrInvalidSplitTotal, sum, totalUnits)
	}
	return nil
}

func (s exactStrategy) Calculate(in SplitInput) ([]models.ExpenseSplit, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	return finalize(in, false)
}

// percentageTolerance is the fixed allowance when checking that the
// provided percentages sum to 100.
const percentageTolerance = 0.001

// percentageStrategy uses caller-provided percentages plus their monetary
// equivalents. Percentage correctness (sum to 100 ± 0.001) and monetary
// correctness (owed amounts sum to the total exactly in smallest units)
// are checked independently; both must hold.
type percentageStrategy struct{}

func (percentageStrategy) Validate(in SplitInput) error {
	totalUnits, err := validateCommon(in)
	if err != nil {
		return err
	}
	owed, err := validateProvidedSplits(in)
	if err != nil {
		return err
	}

	var pctSum float64
	for _, s := range in.Splits {
		if s.Percentage < 0 || s.Percentage > 100 {
			return fmt.Errorf("%w: percentage %g for %s is outside [0, 100]",
				ErrInvalidPercentageTotal, s.Percentage, s.ParticipantID)
		}
		pctSum += s.Percentage
	}
	if math.Abs(pctSum-100) > percentageTolerance {
		return fmt.Errorf("%w: percentages sum to %g", ErrInvalidPercentageTotal, pctSum)
	}

	var sum int64
	for _, units := range owed {
		sum += units
	}
	if sum != totalUnits {
		return fmt.Errorf("%w: splits sum to %d units, total is %d units", ErrInvalidSplitTotal, sum, totalUnits)
	}
	return nil
}

func (s percentageStrategy) Calculate(in SplitInput) ([]models.ExpenseSplit, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	return finalize(in, true)
}
