package ledger

import (
	"fmt"
	"sort"

	"github.com/tallyhq/tally/internal/money"
)

// SimplifiedDebt is a single settling transfer: From pays To.
// Amount is always strictly positive.
type SimplifiedDebt struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// party is one side of the matching: a user and the magnitude still owed
// or owing, in smallest units.
type party struct {
	userID string
	units  int64
}

// SimplifyDebts reduces one currency's net balances to a near-minimal
// transfer list using greedy matching: repeatedly pair the
// largest-magnitude creditor with the largest-magnitude debtor, transfer
// min(|creditor|, |debtor|), and drop whichever side reaches zero.
//
// The heuristic is not a globally optimal matching (that problem is
// NP-hard). Ties on magnitude break by ascending user ID, so identical
// input always yields the identical transfer list. Replaying the returned
// transfers against the input balances nets every user to zero.
func SimplifyDebts(currency string, net map[string]string) ([]SimplifiedDebt, error) {
	var creditors, debtors []party
	for userID, amount := range net {
		units, err := money.ToSmallestUnit(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", userID, err)
		}
		switch {
		case units > 0:
			creditors = append(creditors, party{userID, units})
		case units < 0:
			debtors = append(debtors, party{userID, -units})
		}
	}

	// Largest magnitude first, user ID as the deterministic tie-break.
	byMagnitude := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if parties[i].units != parties[j].units {
				return parties[i].units > parties[j].units
			}
			return parties[i].userID < parties[j].userID
		}
	}
	sort.Slice(creditors, byMagnitude(creditors))
	sort.Slice(debtors, byMagnitude(debtors))

	var debts []SimplifiedDebt
	for len(debtors) > 0 {
		if len(creditors) == 0 {
			// Debtors without creditors means the input did not sum to zero.
			return nil, fmt.Errorf("%w: debtors remain with no creditors in %s", ErrBalanceConservation, currency)
		}

		creditor, debtor := &creditors[0], &debtors[0]
		transfer := creditor.units
		if debtor.units < transfer {
			transfer = debtor.units
		}

		amount, err := money.FromSmallestUnit(transfer, currency)
		if err != nil {
			return nil, err
		}
		debts = append(debts, SimplifiedDebt{
			From:     debtor.userID,
			To:       creditor.userID,
			Amount:   amount,
			Currency: currency,
		})

		creditor.units -= transfer
		debtor.units -= transfer
		if creditor.units == 0 {
			creditors = creditors[1:]
		}
		if debtor.units == 0 {
			debtors = debtors[1:]
		}

		// Shrinking the head can demote it below its neighbors; re-sorting
		// keeps the largest-vs-largest pairing and the deterministic order.
		sort.Slice(creditors, byMagnitude(creditors))
		sort.Slice(debtors, byMagnitude(debtors))
	}

	return debts, nil
}

// SimplifyAll simplifies every currency in the balance set, currencies in
// sorted order so the combined output is reproducible.
func SimplifyAll(balances NetBalances) ([]SimplifiedDebt, error) {
	currencies := make([]string, 0, len(balances))
	for c := range balances {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	var all []SimplifiedDebt
	for _, c := range currencies {
		debts, err := SimplifyDebts(c, balances[c])
		if err != nil {
			return nil, err
		}
		all = append(all, debts...)
	}
	return all, nil
}
