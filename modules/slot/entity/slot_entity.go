package entity

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusBusy            SlotStatus = "BUSY"
	SlotStatusExchangeable    SlotStatus = "EXCHANGEABLE"
	SlotStatusExchangePending SlotStatus = "EXCHANGE_PENDING"
)

// ownerTransitions is the closed set of status changes a slot owner may make
// directly. Everything involving EXCHANGE_PENDING belongs to the exchange
// coordinator alone.
var ownerTransitions = map[SlotStatus]map[SlotStatus]bool{
	SlotStatusBusy:         {SlotStatusExchangeable: true},
	SlotStatusExchangeable: {SlotStatusBusy: true},
}

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusBusy, SlotStatusExchangeable, SlotStatusExchangePending:
		return true
	}
	return false
}

// CanOwnerToggle reports whether an owner may move a slot from s to target.
func (s SlotStatus) CanOwnerToggle(target SlotStatus) bool {
	return ownerTransitions[s][target]
}

type Slot struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	OwnerID   uuid.UUID  `db:"owner_id" json:"owner_id"`
	Title     string     `db:"title" json:"title"`
	Slug      string     `db:"slug" json:"slug"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   time.Time  `db:"end_time" json:"end_time"`
	Status    SlotStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// SlotWithOwner carries the owner's display name for marketplace listings.
type SlotWithOwner struct {
	Slot
	OwnerName string `db:"owner_name" json:"owner_name"`
}
