package dto

import (
	"time"

	"slotswap-api/modules/slot/entity"
)

type CreateSlotRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type UpdateStatusRequest struct {
	Status entity.SlotStatus `json:"status"`
}

type MarketplaceResponse struct {
	Slots []entity.SlotWithOwner `json:"slots"`
	Total int                    `json:"total"`
}
