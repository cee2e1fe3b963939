package controller

import (
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/pkg/serverutils"
	"github.com/momonga11/notenext-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
}

type projectController struct {
	service service.IProjectService
}

func NewProjectController(service service.IProjectService) IProjectController {
	return &projectController{service: service}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/projects")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get("/:projectId", c.Show)
	h.Put("/:projectId", c.Update)
	h.Delete("/:projectId", c.Delete)
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Projects", res))
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Project created", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	if ctx.QueryBool("with_association") {
		res, err := c.service.ShowWithAssociation(ctx.Context(), userId, projectId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Project", res))
	}

	res, err := c.service.Show(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Project", res))
}

func (c *projectController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	var req dto.UpdateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, projectId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Project updated", res))
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, projectId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Project deleted", nil))
}
