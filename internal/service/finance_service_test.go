package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tallyhq/tally/internal/models"
)

func TestGetGroupFinances(t *testing.T) {
	store := newTestStore(t)
	expenses := NewExpenseService(store)
	finances := NewFinanceService(store)
	ctx := context.Background()
	group := seedGroup(t, store, "alice", "bob", "carol")

	// alice pays 90 split equally: bob and carol each owe 30.
	_, err := expenses.CreateExpense(ctx, "alice", ExpenseInput{
		GroupID:        group.ID,
		Description:    "Dinner",
		TotalAmount:    "90.00",
		Currency:       "USD",
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob", "carol"},
		SplitType:      models.SplitEqual,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// bob pays back 10.
	_, err = expenses.CreateSettlement(ctx, "bob", SettlementInput{
		GroupID:  group.ID,
		PayerID:  "bob",
		PayeeID:  "alice",
		Amount:   "10.00",
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	t.Run("balances and simplified debts agree", func(t *testing.T) {
		view, err := finances.GetGroupFinances(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("GetGroupFinances failed: %v", err)
		}

		usd, ok := view.Balances["USD"]
		if !ok {
			t.Fatal("Expected USD balances")
		}
		want := map[string]string{"alice": "50.00", "bob": "-20.00", "carol": "-30.00"}
		for userID, amount := range want {
			if usd[userID] != amount {
				t.Errorf("Balance for %s = %s, want %s", userID, usd[userID], amount)
			}
		}

		if len(view.Simplified) != 2 {
			t.Fatalf("Expected 2 simplified debts, got %d", len(view.Simplified))
		}
		// carol owes more than bob so she settles first.
		first, second := view.Simplified[0], view.Simplified[1]
		if first.From != "carol" || first.To != "alice" || first.Amount != "30.00" {
			t.Errorf("First debt = %+v, want carol -> alice 30.00", first)
		}
		if second.From != "bob" || second.To != "alice" || second.Amount != "20.00" {
			t.Errorf("Second debt = %+v, want bob -> alice 20.00", second)
		}
	})

	t.Run("lock flags reflect current membership", func(t *testing.T) {
		view, err := finances.GetGroupFinances(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("GetGroupFinances failed: %v", err)
		}
		for _, e := range view.Expenses {
			if e.IsLocked {
				t.Errorf("Expense %s locked with all members active", e.ID)
			}
		}

		archiveMember(t, store, group.ID, "carol")
		view, err = finances.GetGroupFinances(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("GetGroupFinances failed: %v", err)
		}
		if len(view.Expenses) != 1 || !view.Expenses[0].IsLocked {
			t.Error("Expected the expense to be locked after carol departed")
		}
		if len(view.Settlements) != 1 || view.Settlements[0].IsLocked {
			t.Error("Expected the bob/alice settlement to stay unlocked")
		}

		// Balances still include carol. Departure hides nothing.
		if view.Balances["USD"]["carol"] != "-30.00" {
			t.Errorf("Balance for carol = %s, want -30.00", view.Balances["USD"]["carol"])
		}
	})

	t.Run("requester must be an active member", func(t *testing.T) {
		if _, err := finances.GetGroupFinances(ctx, "mallory", group.ID); !errors.Is(err, ErrNotGroupMember) {
			t.Errorf("Expected ErrNotGroupMember, got %v", err)
		}
		if _, err := finances.GetGroupFinances(ctx, "carol", group.ID); !errors.Is(err, ErrNotGroupMember) {
			t.Errorf("Expected ErrNotGroupMember for archived member, got %v", err)
		}
	})
}

func TestGetGroupFinancesMultiCurrency(t *testing.T) {
	store := newTestStore(t)
	expenses := NewExpenseService(store)
	finances := NewFinanceService(store)
	ctx := context.Background()
	group := seedGroup(t, store, "alice", "bob")

	for _, in := range []ExpenseInput{
		{
			GroupID: group.ID, Description: "Lunch", TotalAmount: "20.00", Currency: "USD",
			PayerID: "alice", ParticipantIDs: []string{"alice", "bob"}, SplitType: models.SplitEqual,
		},
		{
			GroupID: group.ID, Description: "Ramen", TotalAmount: "3000", Currency: "JPY",
			PayerID: "bob", ParticipantIDs: []string{"alice", "bob"}, SplitType: models.SplitEqual,
		},
	} {
		if _, err := expenses.CreateExpense(ctx, "alice", in); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	view, err := finances.GetGroupFinances(ctx, "bob", group.ID)
	if err != nil {
		t.Fatalf("GetGroupFinances failed: %v", err)
	}
	if view.Balances["USD"]["bob"] != "-10.00" {
		t.Errorf("USD balance for bob = %s, want -10.00", view.Balances["USD"]["bob"])
	}
	if view.Balances["JPY"]["alice"] != "-1500" {
		t.Errorf("JPY balance for alice = %s, want -1500", view.Balances["JPY"]["alice"])
	}

	// Each currency settles independently, never across.
	if len(view.Simplified) != 2 {
		t.Fatalf("Expected 2 simplified debts, got %d", len(view.Simplified))
	}
	for _, debt := range view.Simplified {
		switch debt.Currency {
		case "USD":
			if debt.From != "bob" || debt.To != "alice" || debt.Amount != "10.00" {
				t.Errorf("USD debt = %+v, want bob -> alice 10.00", debt)
			}
		case "JPY":
			if debt.From != "alice" || debt.To != "bob" || debt.Amount != "1500" {
				t.Errorf("JPY debt = %+v, want alice -> bob 1500", debt)
			}
		default:
			t.Errorf("Unexpected currency %s", debt.Currency)
		}
	}
}
