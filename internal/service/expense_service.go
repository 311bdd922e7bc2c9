// Package service implements the application use-cases on top of the
// ledger engine and the storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/money"
	"github.com/tallyhq/tally/internal/storage"
)

var (
	// ErrNotGroupMember is returned when the requester is not an active
	// member of the group they are operating on.
	ErrNotGroupMember = errors.New("not an active member of this group")

	// ErrSelfSettlement is returned when a settlement names the same user
	// as payer and payee.
	ErrSelfSettlement = errors.New("payer and payee must differ")
)

// ExpenseService owns the write path for expenses and settlements.
//
// Every write runs inside a single storage transaction: the active
// membership set is read, lock and split validation run against it, and
// the record is persisted before the transaction commits. That is what
// keeps a membership change from racing a validation.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpenseInput is the caller-provided description of an expense.
type ExpenseInput struct {
	GroupID        string                `json:"group_id"`
	Description    string                `json:"description"`
	TotalAmount    string                `json:"total_amount"`
	Currency       string                `json:"currency"`
	PayerID        string                `json:"payer_id"`
	ParticipantIDs []string              `json:"participant_ids"`
	SplitType      models.SplitType      `json:"split_type"`
	Splits         []models.ExpenseSplit `json:"splits,omitempty"`
}

// buildExpense validates the input against the group's active members and
// returns a fully-populated expense ready to persist. Must be called with
// a transaction-bound store.
func buildExpense(ctx context.Context, tx storage.Store, userID string, in ExpenseInput) (*models.Expense, error) {
	strategy, err := ledger.StrategyFor(in.SplitType)
	if err != nil {
		return nil, err
	}

	memberships, err := tx.ListMemberships(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	active := ledger.ActiveSet(memberships)
	if !active.Has(userID) {
		return nil, ErrNotGroupMember
	}

	total, err := money.Normalize(in.TotalAmount, in.Currency)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:        in.GroupID,
		Description:    in.Description,
		TotalAmount:    total,
		Currency:       in.Currency,
		PayerID:        in.PayerID,
		ParticipantIDs: in.ParticipantIDs,
		SplitType:      in.SplitType,
		CreatedBy:      userID,
	}

	// Departed-member check comes before split validation: a structurally
	// perfect expense naming an archived member is still rejected.
	if err := ledger.CheckExpenseWritable(expense, active); err != nil {
		return nil, err
	}

	splitIn := ledger.SplitInput{
		TotalAmount:    total,
		Currency:       in.Currency,
		ParticipantIDs: in.ParticipantIDs,
		Splits:         in.Splits,
	}
	if err := strategy.Validate(splitIn); err != nil {
		return nil, err
	}
	splits, err := strategy.Calculate(splitIn)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits

	return expense, nil
}

// CreateExpense validates and persists a new expense on behalf of userID.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	var expense *models.Expense
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		expense, err = buildExpense(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		return tx.CreateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "total", expense.TotalAmount, "currency", expense.Currency)
	return expense, nil
}

// UpdateExpense replaces an expense with a new version. The old version
// must still be current, unlocked, and in the same group; it is marked
// superseded in the same transaction that writes the replacement.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	var replacement *models.Expense
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		existing, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if existing.GroupID != in.GroupID {
			return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
		}
		if !existing.Live() {
			return fmt.Errorf("%w: expense %s is not the current version", storage.ErrNotFound, expenseID)
		}

		memberships, err := tx.ListMemberships(ctx, existing.GroupID)
		if err != nil {
			return err
		}
		if ledger.ExpenseLocked(existing, ledger.ActiveSet(memberships)) {
			return fmt.Errorf("%w: expense %s references a departed member", ledger.ErrTransactionLocked, expenseID)
		}

		replacement, err = buildExpense(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		return tx.SupersedeExpense(ctx, expenseID, replacement)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("expense updated", "expense_id", expenseID, "replacement_id", replacement.ID)
	return replacement, nil
}

// DeleteExpense soft-deletes an expense. Locked expenses cannot be
// deleted; the history they anchor must stay intact.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		existing, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if !existing.Live() {
			return fmt.Errorf("%w: expense %s is not the current version", storage.ErrNotFound, expenseID)
		}

		memberships, err := tx.ListMemberships(ctx, existing.GroupID)
		if err != nil {
			return err
		}
		active := ledger.ActiveSet(memberships)
		if !active.Has(userID) {
			return ErrNotGroupMember
		}
		if ledger.ExpenseLocked(existing, active) {
			return fmt.Errorf("%w: expense %s references a departed member", ledger.ErrTransactionLocked, expenseID)
		}
		return tx.SoftDeleteExpense(ctx, expenseID, time.Now().Unix())
	})
	if err != nil {
		return err
	}
	slog.Info("expense deleted", "expense_id", expenseID, "user_id", userID)
	return nil
}

// SettlementInput is the caller-provided description of a settlement.
type SettlementInput struct {
	GroupID  string `json:"group_id"`
	PayerID  string `json:"payer_id"`
	PayeeID  string `json:"payee_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Note     string `json:"note,omitempty"`
}

// CreateSettlement validates and persists a payment between two active
// members.
func (s *ExpenseService) CreateSettlement(ctx context.Context, userID string, in SettlementInput) (*models.Settlement, error) {
	if in.PayerID == in.PayeeID {
		return nil, ErrSelfSettlement
	}

	amount, err := money.Normalize(in.Amount, in.Currency)
	if err != nil {
		return nil, err
	}
	units, err := money.ToSmallestUnit(amount, in.Currency)
	if err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: settlement amount must be positive", money.ErrInvalidAmount)
	}

	settlement := &models.Settlement{
		GroupID:   in.GroupID,
		PayerID:   in.PayerID,
		PayeeID:   in.PayeeID,
		Amount:    amount,
		Currency:  in.Currency,
		Note:      in.Note,
		CreatedBy: userID,
	}

	err = s.store.InTx(ctx, func(tx storage.Store) error {
		memberships, err := tx.ListMemberships(ctx, in.GroupID)
		if err != nil {
			return err
		}
		active := ledger.ActiveSet(memberships)
		if !active.Has(userID) {
			return ErrNotGroupMember
		}
		if err := ledger.CheckSettlementWritable(settlement, active); err != nil {
			return err
		}
		return tx.CreateSettlement(ctx, settlement)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("settlement created", "settlement_id", settlement.ID, "group_id", settlement.GroupID, "amount", settlement.Amount, "currency", settlement.Currency)
	return settlement, nil
}

// DeleteSettlement soft-deletes a settlement. Locked settlements (payer
// or payee departed) cannot be deleted.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, userID, settlementID string) error {
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		existing, err := tx.GetSettlement(ctx, settlementID)
		if err != nil {
			return err
		}
		if !existing.Live() {
			return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
		}

		memberships, err := tx.ListMemberships(ctx, existing.GroupID)
		if err != nil {
			return err
		}
		active := ledger.ActiveSet(memberships)
		if !active.Has(userID) {
			return ErrNotGroupMember
		}
		if ledger.SettlementLocked(existing, active) {
			return fmt.Errorf("%w: settlement %s references a departed member", ledger.ErrTransactionLocked, settlementID)
		}
		return tx.SoftDeleteSettlement(ctx, settlementID, time.Now().Unix())
	})
	if err != nil {
		return err
	}
	slog.Info("settlement deleted", "settlement_id", settlementID, "user_id", userID)
	return nil
}
