package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded by the worker.
const (
	ActionSlotCreated       = "slot.created"
	ActionSlotStatusChanged = "slot.status_changed"
	ActionExchangeProposed  = "exchange.proposed"
	ActionExchangeReceived  = "exchange.received"
	ActionExchangeAccepted  = "exchange.accepted"
	ActionExchangeRejected  = "exchange.rejected"
)

type Activity struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Action    string     `db:"action" json:"action"`
	SubjectID *uuid.UUID `db:"subject_id" json:"subject_id,omitempty"`
	Detail    string     `db:"detail" json:"detail"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
