package service

import (
	"context"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// FinanceService computes the read-side views of a group's ledger:
// net balances, simplified debts, and the transaction history with
// lock status.
type FinanceService struct {
	store storage.Store
}

// NewFinanceService creates a new FinanceService with the given storage
// backend.
func NewFinanceService(store storage.Store) *FinanceService {
	return &FinanceService{store: store}
}

// ExpenseView is an expense annotated with its lock status. Lock status
// is derived from the membership set at read time and never stored.
type ExpenseView struct {
	models.Expense
	IsLocked bool `json:"is_locked"`
}

// SettlementView is a settlement annotated with its lock status.
type SettlementView struct {
	models.Settlement
	IsLocked bool `json:"is_locked"`
}

// GroupFinances is a consistent snapshot of a group's ledger state.
type GroupFinances struct {
	GroupID     string                  `json:"group_id"`
	Balances    ledger.NetBalances      `json:"balances"`
	Simplified  []ledger.SimplifiedDebt `json:"simplified_debts"`
	Expenses    []ExpenseView           `json:"expenses"`
	Settlements []SettlementView        `json:"settlements"`
}

// GetGroupFinances returns balances, simplified debts, and annotated
// transactions for a group. Everything is read in one transaction so
// the lock flags, balances, and history agree with each other.
func (s *FinanceService) GetGroupFinances(ctx context.Context, userID, groupID string) (*GroupFinances, error) {
	finances := &GroupFinances{GroupID: groupID}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		memberships, err := tx.ListMemberships(ctx, groupID)
		if err != nil {
			return err
		}
		active := ledger.ActiveSet(memberships)
		if !active.Has(userID) {
			return ErrNotGroupMember
		}

		expenses, err := tx.ListGroupExpenses(ctx, groupID)
		if err != nil {
			return err
		}
		settlements, err := tx.ListGroupSettlements(ctx, groupID)
		if err != nil {
			return err
		}

		balances, err := ledger.AggregateBalances(expenses, settlements)
		if err != nil {
			return err
		}
		simplified, err := ledger.SimplifyAll(balances)
		if err != nil {
			return err
		}

		finances.Balances = balances
		finances.Simplified = simplified
		finances.Expenses = make([]ExpenseView, len(expenses))
		for i, e := range expenses {
			finances.Expenses[i] = ExpenseView{
				Expense:  e,
				IsLocked: ledger.ExpenseLocked(&expenses[i], active),
			}
		}
		finances.Settlements = make([]SettlementView, len(settlements))
		for i, st := range settlements {
			finances.Settlements[i] = SettlementView{
				Settlement: st,
				IsLocked:   ledger.SettlementLocked(&settlements[i], active),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finances, nil
}

// GetBalances returns just the per-currency net balances of a group.
func (s *FinanceService) GetBalances(ctx context.Context, userID, groupID string) (ledger.NetBalances, error) {
	finances, err := s.GetGroupFinances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return finances.Balances, nil
}

// GetSimplifiedDebts returns the minimal transfer set that settles the
// group's balances.
func (s *FinanceService) GetSimplifiedDebts(ctx context.Context, userID, groupID string) ([]ledger.SimplifiedDebt, error) {
	finances, err := s.GetGroupFinances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return finances.Simplified, nil
}
