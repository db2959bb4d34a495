package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // record stored; inline result offered, nothing sent yet
	PaymentStatusCreated PaymentStatus = "created" // invoice obtained from the market; awaiting payment
	PaymentStatusPaid    PaymentStatus = "paid"    // processor confirmed via webhook
	PaymentStatusError   PaymentStatus = "error"   // invoice request failed; terminal for this attempt
)

// statusRank orders statuses so a transition can never move backward.
var statusRank = map[PaymentStatus]int{
	PaymentStatusPending: 0,
	PaymentStatusCreated: 1,
	PaymentStatusError:   1,
	PaymentStatusPaid:    2,
}

// CanAdvanceTo reports whether next is a forward transition from s.
// Re-applying the same status is allowed (webhooks are at-least-once);
// moving sideways or backward is not.
func (s PaymentStatus) CanAdvanceTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// PaymentRecord is the single persisted entity: one row per offered invoice.
// It correlates the ephemeral inline interaction (ResultID), the market
// invoice (PaymentID) and the editable chat message (InlineMessageID).
type PaymentRecord struct {
	PaymentID       string  // primary key, e.g. "tg_42_ab12cd34"
	ResultID        string  // sha256(PaymentID); inline result address
	Amount          int64   // whole currency units, immutable after creation
	InlineMessageID *string // set once the admin actually sends the result
	InvoiceURL      *string // set once the market returns a checkout URL
	Status          PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeriveResultID maps a payment id to the inline result id. The digest is
// one-way and deterministic; only this service produces and consumes it.
func DeriveResultID(paymentID string) string {
	sum := sha256.Sum256([]byte(paymentID))
	return hex.EncodeToString(sum[:])
}
