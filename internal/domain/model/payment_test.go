//go:build !integration

package model

import "testing"

func TestDeriveResultID(t *testing.T) {
	a := DeriveResultID("tg_42_ab12cd34")
	b := DeriveResultID("tg_42_ab12cd34")
	if a != b {
		t.Errorf("derivation is not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == DeriveResultID("tg_42_ab12cd35") {
		t.Error("distinct payment ids produced the same result id")
	}
}

func TestPaymentStatusCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusCreated, true},
		{PaymentStatusPending, PaymentStatusError, true},
		{PaymentStatusCreated, PaymentStatusPaid, true},
		{PaymentStatusPaid, PaymentStatusPaid, true}, // duplicate webhook
		{PaymentStatusCreated, PaymentStatusCreated, true},
		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusPaid, PaymentStatusCreated, false},
		{PaymentStatusCreated, PaymentStatusPending, false},
		{PaymentStatusError, PaymentStatusCreated, false},
		{PaymentStatusCreated, PaymentStatusError, false},
	}
	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
