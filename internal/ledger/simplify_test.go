package ledger

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tallyhq/tally/internal/money"
)

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name string
		net  map[string]string
		want []SimplifiedDebt
	}{
		{
			name: "two debtors one creditor",
			net:  map[string]string{"a": "60.00", "b": "-30.00", "c": "-30.00"},
			want: []SimplifiedDebt{
				{From: "b", To: "a", Amount: "30.00", Currency: "USD"},
				{From: "c", To: "a", Amount: "30.00", Currency: "USD"},
			},
		},
		{
			name: "chain collapses to direct transfers",
			net:  map[string]string{"a": "50.00", "b": "25.00", "c": "-45.00", "d": "-30.00"},
			want: []SimplifiedDebt{
				{From: "c", To: "a", Amount: "45.00", Currency: "USD"},
				{From: "d", To: "b", Amount: "25.00", Currency: "USD"},
				{From: "d", To: "a", Amount: "5.00", Currency: "USD"},
			},
		},
		{
			name: "all settled emits nothing",
			net:  map[string]string{"a": "0.00", "b": "0.00"},
			want: nil,
		},
		{
			name: "empty input",
			net:  map[string]string{},
			want: nil,
		},
		{
			name: "single pair",
			net:  map[string]string{"a": "-12.34", "b": "12.34"},
			want: []SimplifiedDebt{
				{From: "a", To: "b", Amount: "12.34", Currency: "USD"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimplifyDebts("USD", tt.net)
			if err != nil {
				t.Fatalf("SimplifyDebts failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SimplifyDebts = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Replaying the emitted transfers against the original balances must net
// every user to exactly zero, and no transfer may be non-positive.
func TestSimplifyReplayZeroesBalances(t *testing.T) {
	nets := []map[string]string{
		{"a": "60.00", "b": "-30.00", "c": "-30.00"},
		{"a": "0.01", "b": "-0.01"},
		{"a": "100.00", "b": "-33.33", "c": "-33.33", "d": "-33.34"},
		{"a": "12.50", "b": "7.50", "c": "-9.99", "d": "-10.01"},
	}

	for _, net := range nets {
		debts, err := SimplifyDebts("USD", net)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}

		remaining := make(map[string]int64, len(net))
		for user, amount := range net {
			units, err := money.ToSmallestUnit(amount, "USD")
			if err != nil {
				t.Fatalf("ToSmallestUnit failed: %v", err)
			}
			remaining[user] = units
		}

		for _, d := range debts {
			units, err := money.ToSmallestUnit(d.Amount, "USD")
			if err != nil {
				t.Fatalf("ToSmallestUnit failed: %v", err)
			}
			if units <= 0 {
				t.Errorf("emitted non-positive transfer: %+v", d)
			}
			remaining[d.From] += units
			remaining[d.To] -= units
		}

		for user, units := range remaining {
			if units != 0 {
				t.Errorf("net %v: user %s left with %d units after replay", net, user, units)
			}
		}
	}
}

func TestSimplifyDeterministicTieBreak(t *testing.T) {
	// Equal magnitudes everywhere: order must come from user IDs alone.
	net := map[string]string{
		"zed": "10.00", "amy": "10.00",
		"bob": "-10.00", "yui": "-10.00",
	}

	first, err := SimplifyDebts("USD", net)
	if err != nil {
		t.Fatalf("SimplifyDebts failed: %v", err)
	}
	want := []SimplifiedDebt{
		{From: "bob", To: "amy", Amount: "10.00", Currency: "USD"},
		{From: "yui", To: "zed", Amount: "10.00", Currency: "USD"},
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("SimplifyDebts = %+v, want %+v", first, want)
	}

	// Map iteration order varies between runs; output must not.
	for i := 0; i < 20; i++ {
		again, err := SimplifyDebts("USD", net)
		if err != nil {
			t.Fatalf("SimplifyDebts failed: %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSimplifyUnbalancedInputFails(t *testing.T) {
	_, err := SimplifyDebts("USD", map[string]string{"a": "-5.00"})
	if !errors.Is(err, ErrBalanceConservation) {
		t.Errorf("error = %v, want ErrBalanceConservation", err)
	}
}

func TestSimplifyAll(t *testing.T) {
	balances := NetBalances{
		"USD": {"a": "10.00", "b": "-10.00"},
		"JPY": {"a": "-500", "b": "500"},
	}

	debts, err := SimplifyAll(balances)
	if err != nil {
		t.Fatalf("SimplifyAll failed: %v", err)
	}

	// Currencies are processed in sorted order: JPY before USD.
	want := []SimplifiedDebt{
		{From: "a", To: "b", Amount: "500", Currency: "JPY"},
		{From: "b", To: "a", Amount: "10.00", Currency: "USD"},
	}
	if !reflect.DeepEqual(debts, want) {
		t.Errorf("SimplifyAll = %+v, want %+v", debts, want)
	}
}
