package ledger

import (
	"errors"
	"testing"

	"github.com/tallyhq/tally/internal/models"
)

func memberships(status map[string]models.MembershipStatus) []models.Membership {
	var out []models.Membership
	for user, s := range status {
		out = append(out, models.Membership{UserID: user, GroupID: "g1", Status: s})
	}
	return out
}

func TestExpenseLocked(t *testing.T) {
	exp := expense("e1", "a", "90.00", "USD",
		split("a", "30.00"), split("b", "30.00"), split("c", "30.00"))

	t.Run("unlocked while all participants active", func(t *testing.T) {
		active := ActiveSet(memberships(map[string]models.MembershipStatus{
			"a": models.MemberActive, "b": models.MemberActive, "c": models.MemberActive,
		}))
		if ExpenseLocked(&exp, active) {
			t.Error("expense locked with all participants active")
		}
	})

	t.Run("locks the instant one participant departs", func(t *testing.T) {
		active := ActiveSet(memberships(map[string]models.MembershipStatus{
			"a": models.MemberActive, "b": models.MemberActive, "c": models.MemberArchived,
		}))
		if !ExpenseLocked(&exp, active) {
			t.Error("expense not locked after a participant archived")
		}
	})

	t.Run("pending does not count as active", func(t *testing.T) {
		active := ActiveSet(memberships(map[string]models.MembershipStatus{
			"a": models.MemberActive, "b": models.MemberPending, "c": models.MemberActive,
		}))
		if !ExpenseLocked(&exp, active) {
			t.Error("expense not locked with a pending participant")
		}
	})

	t.Run("non-participant departures are irrelevant", func(t *testing.T) {
		active := ActiveSet(memberships(map[string]models.MembershipStatus{
			"a": models.MemberActive, "b": models.MemberActive, "c": models.MemberActive,
			"d": models.MemberArchived,
		}))
		if ExpenseLocked(&exp, active) {
			t.Error("expense locked by a departure outside its participant set")
		}
	})
}

func TestSettlementLocked(t *testing.T) {
	s := models.Settlement{ID: "s1", GroupID: "g1", PayerID: "a", PayeeID: "b", Amount: "10.00", Currency: "USD"}

	allActive := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberActive, "b": models.MemberActive,
	}))
	if SettlementLocked(&s, allActive) {
		t.Error("settlement locked with both parties active")
	}

	payeeGone := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberActive, "b": models.MemberArchived,
	}))
	if !SettlementLocked(&s, payeeGone) {
		t.Error("settlement not locked after payee archived")
	}
}

func TestCheckExpenseWritable(t *testing.T) {
	exp := expense("e1", "a", "90.00", "USD", split("a", "45.00"), split("b", "45.00"))

	active := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberActive, "b": models.MemberActive,
	}))
	if err := CheckExpenseWritable(&exp, active); err != nil {
		t.Errorf("CheckExpenseWritable failed for active participants: %v", err)
	}

	departed := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberActive, "b": models.MemberArchived,
	}))
	if err := CheckExpenseWritable(&exp, departed); !errors.Is(err, ErrDepartedParticipant) {
		t.Errorf("CheckExpenseWritable error = %v, want ErrDepartedParticipant", err)
	}

	// Payer outside the participant set still has to be active.
	payerOnly := expense("e2", "x", "10.00", "USD", split("a", "10.00"))
	if err := CheckExpenseWritable(&payerOnly, active); !errors.Is(err, ErrDepartedParticipant) {
		t.Errorf("CheckExpenseWritable error = %v, want ErrDepartedParticipant for inactive payer", err)
	}
}

func TestCheckSettlementWritable(t *testing.T) {
	s := models.Settlement{PayerID: "a", PayeeID: "b", Amount: "5.00", Currency: "USD"}

	active := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberActive, "b": models.MemberActive,
	}))
	if err := CheckSettlementWritable(&s, active); err != nil {
		t.Errorf("CheckSettlementWritable failed: %v", err)
	}

	gone := ActiveSet(memberships(map[string]models.MembershipStatus{
		"a": models.MemberArchived, "b": models.MemberActive,
	}))
	if err := CheckSettlementWritable(&s, gone); !errors.Is(err, ErrDepartedParticipant) {
		t.Errorf("CheckSettlementWritable error = %v, want ErrDepartedParticipant", err)
	}
}
