package money

import (
	"errors"
	"testing"
)

func TestToSmallestUnit(t *testing.T) {
	tests := []struct {
		amount  string
		code    string
		want    int64
		wantErr bool
	}{
		{"12.34", "USD", 1234, false},
		{"500", "JPY", 500, false},
		{"12.345", "BHD", 12345, false},
		{"-7.50", "USD", -750, false},
		{"0", "USD", 0, false},
		{"12.340", "USD", 1234, false}, // trailing zero beyond precision is still exact
		{"12.345", "USD", 0, true},     // over-precision
		{"12.5", "JPY", 0, true},       // JPY has no fraction
		{"abc", "USD", 0, true},
		{"", "USD", 0, true},
		{"NaN", "USD", 0, true},
		{"10.00", "XXX-NOPE", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			got, err := ToSmallestUnit(tt.amount, tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToSmallestUnit(%q, %q) error = %v, wantErr %v", tt.amount, tt.code, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ToSmallestUnit(%q, %q) = %d, want %d", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFromSmallestUnit(t *testing.T) {
	tests := []struct {
		units int64
		code  string
		want  string
	}{
		{1234, "USD", "12.34"},
		{-750, "USD", "-7.50"},
		{500, "JPY", "500"},
		{12345, "BHD", "12.345"},
		{0, "USD", "0.00"},
		{5, "USD", "0.05"},
	}

	for _, tt := range tests {
		got, err := FromSmallestUnit(tt.units, tt.code)
		if err != nil {
			t.Fatalf("FromSmallestUnit(%d, %q) error: %v", tt.units, tt.code, err)
		}
		if got != tt.want {
			t.Errorf("FromSmallestUnit(%d, %q) = %q, want %q", tt.units, tt.code, got, tt.want)
		}
	}
}

// Round-tripping any valid amount through smallest units must reproduce
// its normalized form exactly.
func TestRoundTripExactness(t *testing.T) {
	amounts := map[string][]string{
		"USD": {"0", "0.01", "12.34", "-12.34", "99999999.99", "12.3"},
		"JPY": {"0", "1", "500", "-42"},
		"BHD": {"0.001", "12.345", "-0.5"},
	}

	for code, values := range amounts {
		for _, a := range values {
			units, err := ToSmallestUnit(a, code)
			if err != nil {
				t.Fatalf("ToSmallestUnit(%q, %q) error: %v", a, code, err)
			}
			back, err := FromSmallestUnit(units, code)
			if err != nil {
				t.Fatalf("FromSmallestUnit(%d, %q) error: %v", units, code, err)
			}
			norm, err := Normalize(a, code)
			if err != nil {
				t.Fatalf("Normalize(%q, %q) error: %v", a, code, err)
			}
			if back != norm {
				t.Errorf("round trip of %q %s = %q, want %q", a, code, back, norm)
			}
		}
	}
}

func TestArithmetic(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		got, err := Add("0.10", "0.20", "USD")
		if err != nil {
			t.Fatalf("Add error: %v", err)
		}
		// The classic float trap: 0.1 + 0.2 must be exactly 0.30.
		if got != "0.30" {
			t.Errorf("Add(0.10, 0.20) = %q, want 0.30", got)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		got, err := Sub("10.00", "10.01", "USD")
		if err != nil {
			t.Fatalf("Sub error: %v", err)
		}
		if got != "-0.01" {
			t.Errorf("Sub(10.00, 10.01) = %q, want -0.01", got)
		}
	})

	t.Run("Neg and Abs", func(t *testing.T) {
		neg, err := Neg("4.25", "USD")
		if err != nil {
			t.Fatalf("Neg error: %v", err)
		}
		if neg != "-4.25" {
			t.Errorf("Neg(4.25) = %q, want -4.25", neg)
		}
		abs, err := Abs(neg, "USD")
		if err != nil {
			t.Fatalf("Abs error: %v", err)
		}
		if abs != "4.25" {
			t.Errorf("Abs(-4.25) = %q, want 4.25", abs)
		}
	})

	t.Run("Sum", func(t *testing.T) {
		got, err := Sum("USD", "33.34", "33.33", "33.33")
		if err != nil {
			t.Fatalf("Sum error: %v", err)
		}
		if got != "100.00" {
			t.Errorf("Sum = %q, want 100.00", got)
		}

		empty, err := Sum("USD")
		if err != nil {
			t.Fatalf("Sum() error: %v", err)
		}
		if empty != "0.00" {
			t.Errorf("Sum() = %q, want 0.00", empty)
		}
	})

	t.Run("Compare and Min", func(t *testing.T) {
		c, err := Compare("1.00", "1.0", "USD")
		if err != nil {
			t.Fatalf("Compare error: %v", err)
		}
		if c != 0 {
			t.Errorf("Compare(1.00, 1.0) = %d, want 0", c)
		}
		m, err := Min("2.50", "2.05", "USD")
		if err != nil {
			t.Fatalf("Min error: %v", err)
		}
		if m != "2.05" {
			t.Errorf("Min(2.50, 2.05) = %q, want 2.05", m)
		}
	})

	t.Run("IsZero", func(t *testing.T) {
		zero, err := IsZero("0.00", "USD")
		if err != nil {
			t.Fatalf("IsZero error: %v", err)
		}
		if !zero {
			t.Error("IsZero(0.00) = false, want true")
		}
		zero, err = IsZero("0.01", "USD")
		if err != nil {
			t.Fatalf("IsZero error: %v", err)
		}
		if zero {
			t.Error("IsZero(0.01) = true, want false")
		}
	})
}

func TestTolerance(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"USD", "0.01"},
		{"JPY", "1"},
		{"BHD", "0.001"},
	}
	for _, tt := range tests {
		got, err := Tolerance(tt.code)
		if err != nil {
			t.Fatalf("Tolerance(%q) error: %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("Tolerance(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
