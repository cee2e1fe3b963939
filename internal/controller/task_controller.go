package controller

import (
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/pkg/serverutils"
	"github.com/momonga11/notenext-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
}

type taskController struct {
	service service.ITaskService
}

func NewTaskController(service service.ITaskService) ITaskController {
	return &taskController{service: service}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/projects/:projectId/notes/:noteId/tasks")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Put("/:taskId", c.Update)
	h.Delete("/:taskId", c.Delete)
}

func (c *taskController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.Create(ctx.Context(), userId, projectId, noteId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Task created", res))
}

func (c *taskController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}
	taskId, err := parseUUIDParam(ctx, "taskId", "task")
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.Update(ctx.Context(), userId, projectId, noteId, taskId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Task updated", res))
}

func (c *taskController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}
	taskId, err := parseUUIDParam(ctx, "taskId", "task")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, projectId, noteId, taskId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Task deleted", nil))
}
