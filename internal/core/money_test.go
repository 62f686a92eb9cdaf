package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"619", "619", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-3.25", "-3.25", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 619.5, "b": "206"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.A.Equal(NewMoneyFromFloat(619.5)) || !v.B.Equal(NewMoney(206)) {
		t.Fatalf("unexpected values a=%s b=%s", v.A, v.B)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":619.5,"b":206}` {
		t.Fatalf("unexpected json %s", out)
	}

	if err := json.Unmarshal([]byte(`{"a": "twelve"}`), &v); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	total := NewMoney(78500)
	paid := NewMoney(42300)
	if got := total.Sub(paid); !got.Equal(NewMoney(36200)) {
		t.Fatalf("expected 36200, got %s", got)
	}
	if NewMoney(5).Neg().Sign() != -1 {
		t.Fatalf("expected negative sign")
	}
	// decimal arithmetic must not drift the way float sums do
	sum := NewMoneyFromFloat(0.1).Add(NewMoneyFromFloat(0.2))
	if !sum.Equal(NewMoneyFromFloat(0.3)) {
		t.Fatalf("expected 0.3, got %s", sum)
	}
}
