package controller

import (
	"slotswap-api/core/controller"
	"slotswap-api/core/errors"
	"slotswap-api/core/params"
	"slotswap-api/core/utils"
	"slotswap-api/modules/activity/service"

	"github.com/labstack/echo/v4"
)

type ActivityController struct {
	controller.BaseController
	service service.ActivityServiceInterface
}

func NewActivityController(service service.ActivityServiceInterface) *ActivityController {
	return &ActivityController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *ActivityController) ListMyActivities(ctx echo.Context) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	response, appErr := c.service.ListMyActivities(ctx.Request().Context(), userID, params.FromContext(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, response, "Activities retrieved")
}
