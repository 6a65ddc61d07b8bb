package dto

import "slotswap-api/modules/activity/entity"

type ActivityListResponse struct {
	Activities []entity.Activity `json:"activities"`
	Total      int               `json:"total"`
}
