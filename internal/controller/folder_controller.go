package controller

import (
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/pkg/serverutils"
	"github.com/momonga11/notenext-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFolderController interface {
	RegisterRoutes(r fiber.Router)
}

type folderController struct {
	service service.IFolderService
}

func NewFolderController(service service.IFolderService) IFolderController {
	return &folderController{service: service}
}

func (c *folderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/projects/:projectId/folders")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get("/:folderId", c.Show)
	h.Put("/:folderId", c.Update)
	h.Delete("/:folderId", c.Delete)
}

func (c *folderController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId, projectId,
		ctx.QueryBool("note"), ctx.Query("search"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Folders", res))
}

func (c *folderController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, projectId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Folder created", res))
}

func (c *folderController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), userId, projectId, folderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Folder", res))
}

func (c *folderController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}

	var req dto.UpdateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, projectId, folderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Folder updated", res))
}

func (c *folderController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, projectId, folderId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Folder deleted", nil))
}
