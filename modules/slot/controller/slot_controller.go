package controller

import (
	"slotswap-api/core/controller"
	"slotswap-api/core/errors"
	"slotswap-api/core/params"
	"slotswap-api/core/utils"
	"slotswap-api/modules/slot/dto"
	"slotswap-api/modules/slot/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SlotController struct {
	controller.BaseController
	service service.SlotServiceInterface
}

func NewSlotController(service service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *SlotController) CreateSlot(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestData := new(dto.CreateSlotRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	slot, appErr := c.service.CreateSlot(ctx.Request().Context(), userID, requestData)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, slot, "Slot created")
}

func (c *SlotController) ListMySlots(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	slots, appErr := c.service.ListMySlots(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, slots, "Slots retrieved")
}

func (c *SlotController) Marketplace(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	response, appErr := c.service.Marketplace(ctx.Request().Context(), userID, params.FromContext(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, response, "Exchangeable slots retrieved")
}

func (c *SlotController) UpdateStatus(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	slotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid slot ID", nil)
	}

	requestData := new(dto.UpdateStatusRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	slot, appErr := c.service.SetAvailability(ctx.Request().Context(), userID, slotID, requestData.Status)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, slot, "Slot status updated")
}
