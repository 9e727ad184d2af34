package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"92233720368547758.07", math.MaxInt64, true},
		{"92233720368547758.08", 0, false},
		{"184467440737095516.17", 0, false},
		{"-184467440737095516.06", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1.234,5", 0, false},
		{"NaN", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
			continue
		}
		if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected invalid amount error, got %v", tc.in, err)
		}
	}
}

func TestMulQuantity(t *testing.T) {
	cases := []struct {
		rate Money
		qty  float64
		want int64
	}{
		{Money{Cents: 90}, 100, 90_00},
		{Money{Cents: 75_00}, 2.5, 187_50},
		{Money{Cents: 90}, 0.5, 45},
		{Money{Cents: 90}, 0.25, 23}, // 22.5 cents rounds half-up
		{Money{Cents: 90}, 0, 0},
	}
	for _, tc := range cases {
		got, err := tc.rate.MulQuantity(tc.qty)
		if err != nil || got.Cents != tc.want {
			t.Fatalf("%s x %v: got %d (err=%v), want %d", tc.rate, tc.qty, got.Cents, err, tc.want)
		}
	}

	for _, q := range []float64{2.0496382304121725e17, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := (Money{Cents: 90}).MulQuantity(q); !errors.Is(err, ErrValidation) {
			t.Errorf("MulQuantity(%v): expected validation error, got %v", q, err)
		}
	}
}

func TestQuantityFor(t *testing.T) {
	rate := Money{Cents: 75_00}
	if got := rate.QuantityFor(Money{Cents: 150_00}); got != 2 {
		t.Fatalf("expected 2 hours, got %v", got)
	}
	if got := (Money{}).QuantityFor(Money{Cents: 100}); got != 0 {
		t.Fatalf("zero rate should yield 0, got %v", got)
	}
}

func TestValidateAmountBoundaries(t *testing.T) {
	cases := []struct {
		cents int64
		ok    bool
	}{
		{0, false},
		{-1, false},
		{1, true},
		{10_000_000_00, true},
		{10_000_000_01, false},
	}
	for _, tc := range cases {
		err := Money{Cents: tc.cents}.ValidateAmount()
		if tc.ok && err != nil {
			t.Fatalf("%d: unexpected error %v", tc.cents, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%d: expected invalid amount validation error, got %v", tc.cents, err)
			}
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 150_00})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "150.00" {
		t.Fatalf("unexpected json %s", b)
	}
	for in, want := range map[string]int64{
		`90`:       90_00,
		`0.9`:      90,
		`"12,34"`:  12_34,
		`"1.005"`:  1_01,
		`1234.567`: 1234_57,
		`null`:     0,
	} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if m.Cents != want {
			t.Fatalf("%s: got %d, want %d", in, m.Cents, want)
		}
	}
	for _, in := range []string{`"abc"`, `184467440737095516.17`, `"-184467440737095516.06"`, `true`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", in, err)
		}
	}

	var neg Money
	if err := json.Unmarshal([]byte(`-5.5`), &neg); err != nil || neg.Cents != -5_50 {
		t.Fatalf("negative amounts decode with their sign, got %d (err=%v)", neg.Cents, err)
	}
}
