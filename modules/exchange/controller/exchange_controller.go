package controller

import (
	"slotswap-api/core/controller"
	"slotswap-api/core/errors"
	"slotswap-api/core/utils"
	"slotswap-api/modules/exchange/dto"
	"slotswap-api/modules/exchange/entity"
	"slotswap-api/modules/exchange/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ExchangeController struct {
	controller.BaseController
	service service.ExchangeServiceInterface
}

func NewExchangeController(service service.ExchangeServiceInterface) *ExchangeController {
	return &ExchangeController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *ExchangeController) Propose(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestData := new(dto.ProposeExchangeRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	if requestData.OfferedSlotID == uuid.Nil || requestData.RequestedSlotID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidInput, "offered_slot_id and requested_slot_id are required", nil)
	}

	req, appErr := c.service.Propose(ctx.Request().Context(), userID, requestData.OfferedSlotID, requestData.RequestedSlotID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, req, "Exchange request created")
}

func (c *ExchangeController) Accept(ctx echo.Context) error {
	return c.resolve(ctx, entity.OutcomeAccept, "Exchange accepted")
}

func (c *ExchangeController) Reject(ctx echo.Context) error {
	return c.resolve(ctx, entity.OutcomeReject, "Exchange rejected")
}

func (c *ExchangeController) resolve(ctx echo.Context, outcome entity.ExchangeOutcome, message string) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid exchange request ID", nil)
	}

	response, appErr := c.service.Resolve(ctx.Request().Context(), userID, requestID, outcome)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, response, message)
}

func (c *ExchangeController) ListMine(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	response, appErr := c.service.ListMine(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, response, "Exchange requests retrieved")
}
