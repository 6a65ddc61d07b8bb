package dto

import (
	"slotswap-api/modules/exchange/entity"
	slotentity "slotswap-api/modules/slot/entity"

	"github.com/google/uuid"
)

type ProposeExchangeRequest struct {
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

// ResolveExchangeResponse carries the post-resolution state of all three
// records so clients never need a follow-up read to see the outcome.
type ResolveExchangeResponse struct {
	Request       *entity.ExchangeRequest `json:"request"`
	RequesterSlot *slotentity.Slot        `json:"requester_slot"`
	RequesteeSlot *slotentity.Slot        `json:"requestee_slot"`
}

type MyExchangesResponse struct {
	Incoming []entity.ExchangeRequestDetail `json:"incoming"`
	Outgoing []entity.ExchangeRequestDetail `json:"outgoing"`
}
