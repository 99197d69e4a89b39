package finsync

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(decimal.RequireFromString("1234.5"), "USD"), "$1,234.50"},
		{M(decimal.RequireFromString("12.345"), ""), "12.35"},
		{M(decimal.RequireFromString("7"), "NOTACURRENCY"), "7.00"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoney_Add(t *testing.T) {
	a := M(decimal.RequireFromString("1.10"), "EUR")
	b := M(decimal.RequireFromString("2.20"), "")
	got := a.Add(b)
	if got.Currency() != "EUR" || !got.Amount().Equal(decimal.RequireFromString("3.3")) {
		t.Errorf("Add() = %v %v", got.Amount(), got.Currency())
	}
	if !got.Sub(a).Equal(M(decimal.RequireFromString("2.2"), "EUR")) {
		t.Errorf("Sub() = %v", got.Sub(a).Amount())
	}

	defer func() {
		if recover() == nil {
			t.Errorf("adding different currencies should panic")
		}
	}()
	a.Add(M(decimal.NewFromInt(1), "USD"))
}
