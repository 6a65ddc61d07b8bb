package entity

import (
	"time"

	"github.com/google/uuid"
)

type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "PENDING"
	ExchangeStatusAccepted ExchangeStatus = "ACCEPTED"
	ExchangeStatusRejected ExchangeStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s ExchangeStatus) Terminal() bool {
	return s == ExchangeStatusAccepted || s == ExchangeStatusRejected
}

type ExchangeOutcome string

const (
	OutcomeAccept ExchangeOutcome = "ACCEPT"
	OutcomeReject ExchangeOutcome = "REJECT"
)

// ExchangeRequest is a two-party, two-slot exchange offer awaiting the
// requestee's decision. ACCEPTED and REJECTED are terminal.
type ExchangeRequest struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	RequesterID     uuid.UUID      `db:"requester_id" json:"requester_id"`
	RequesteeID     uuid.UUID      `db:"requestee_id" json:"requestee_id"`
	RequesterSlotID uuid.UUID      `db:"requester_slot_id" json:"requester_slot_id"`
	RequesteeSlotID uuid.UUID      `db:"requestee_slot_id" json:"requestee_slot_id"`
	Status          ExchangeStatus `db:"status" json:"status"`
	RespondedAt     *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ExchangeRequestDetail adds the joined display fields used by listings.
type ExchangeRequestDetail struct {
	ExchangeRequest
	RequesterName      string `db:"requester_name" json:"requester_name"`
	RequesteeName      string `db:"requestee_name" json:"requestee_name"`
	RequesterSlotTitle string `db:"requester_slot_title" json:"requester_slot_title"`
	RequesteeSlotTitle string `db:"requestee_slot_title" json:"requestee_slot_title"`
}
