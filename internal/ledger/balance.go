package ledger

import (
	"fmt"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/money"
)

// NetBalances maps currency code -> user ID -> signed net amount as a
// decimal string. Positive means net creditor, negative means net debtor.
//
// Balances are derived, never persisted: they are recomputed from the
// group's live expenses and settlements on every read.
type NetBalances map[string]map[string]string

// AggregateBalances folds a group's expenses and settlements into net
// per-member, per-currency balances. Each currency is handled
// independently; amounts are never converted between currencies.
//
// Soft-deleted and superseded records are skipped. For each expense the
// payer is credited the total and every split participant is debited their
// owed amount (the payer's own split nets against the credit). For each
// settlement the payer is credited and the payee debited.
//
// After folding, every currency's balances must sum to exactly zero. A
// non-zero sum means an arithmetic bug and surfaces as
// ErrBalanceConservation.
func AggregateBalances(expenses []models.Expense, settlements []models.Settlement) (NetBalances, error) {
	units := make(map[string]map[string]int64)

	credit := func(currency, userID string, amount int64) {
		if units[currency] == nil {
			units[currency] = make(map[string]int64)
		}
		units[currency][userID] += amount
	}

	for i := range expenses {
		e := &expenses[i]
		if !e.Live() {
			continue
		}
		total, err := money.ToSmallestUnit(e.TotalAmount, e.Currency)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		credit(e.Currency, e.PayerID, total)
		for _, s := range e.Splits {
			owed, err := money.ToSmallestUnit(s.OwedAmount, e.Currency)
			if err != nil {
				return nil, fmt.Errorf("expense %s split %s: %w", e.ID, s.ParticipantID, err)
			}
			credit(e.Currency, s.ParticipantID, -owed)
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if !s.Live() {
			continue
		}
		amount, err := money.ToSmallestUnit(s.Amount, s.Currency)
		if err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}
		// A settlement reduces what the payer owes: credit payer, debit payee.
		credit(s.Currency, s.PayerID, amount)
		credit(s.Currency, s.PayeeID, -amount)
	}

	// Conservation self-check. Money entering a group always equals money
	// leaving it, so a residual is a computation bug, not bad input.
	for currency, byUser := range units {
		var sum int64
		for _, v := range byUser {
			sum += v
		}
		if sum != 0 {
			return nil, fmt.Errorf("%w: currency %s has residual %d units", ErrBalanceConservation, currency, sum)
		}
	}

	out := make(NetBalances, len(units))
	for currency, byUser := range units {
		out[currency] = make(map[string]string, len(byUser))
		for userID, v := range byUser {
			amount, err := money.FromSmallestUnit(v, currency)
			if err != nil {
				return nil, err
			}
			out[currency][userID] = amount
		}
	}
	return out, nil
}
