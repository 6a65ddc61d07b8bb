package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotStatusValid(t *testing.T) {
	assert.True(t, SlotStatusBusy.Valid())
	assert.True(t, SlotStatusExchangeable.Valid())
	assert.True(t, SlotStatusExchangePending.Valid())
	assert.False(t, SlotStatus("FREE").Valid())
}

func TestCanOwnerToggle(t *testing.T) {
	assert.True(t, SlotStatusBusy.CanOwnerToggle(SlotStatusExchangeable))
	assert.True(t, SlotStatusExchangeable.CanOwnerToggle(SlotStatusBusy))

	// EXCHANGE_PENDING is owned by the exchange flow, never by the owner.
	assert.False(t, SlotStatusBusy.CanOwnerToggle(SlotStatusExchangePending))
	assert.False(t, SlotStatusExchangeable.CanOwnerToggle(SlotStatusExchangePending))
	assert.False(t, SlotStatusExchangePending.CanOwnerToggle(SlotStatusBusy))
	assert.False(t, SlotStatusExchangePending.CanOwnerToggle(SlotStatusExchangeable))
}
