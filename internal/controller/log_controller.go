package controller

import (
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	GenerationLogs(ctx *fiber.Ctx) error
	GenerationLog(ctx *fiber.Ctx) error
	SystemLogs(ctx *fiber.Ctx) error
}

type logController struct {
	logService service.ILogService
}

func NewLogController(logService service.ILogService) ILogController {
	return &logController{logService: logService}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	r.Get("/generation-logs", c.GenerationLogs)
	r.Get("/generation-logs/:id", c.GenerationLog)
	r.Get("/system-logs", c.SystemLogs)
}

func (c *logController) GenerationLogs(ctx *fiber.Ctx) error {
	var q dto.GenerationLogQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.logService.ListGenerationLogs(ctx.UserContext(), &q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list generation logs", res))
}

func (c *logController) GenerationLog(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation log id")
	}

	res, err := c.logService.GetGenerationLog(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Generation log not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get generation log", res))
}

func (c *logController) SystemLogs(ctx *fiber.Ctx) error {
	var q dto.SystemLogQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.logService.ListSystemLogs(ctx.UserContext(), &q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list system logs", res))
}
