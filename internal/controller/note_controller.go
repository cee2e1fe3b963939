package controller

import (
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/pkg/serverutils"
	"github.com/momonga11/notenext-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	project := r.Group("/v1/projects/:projectId")
	project.Use(serverutils.JwtMiddleware)

	// Flattened listing across every folder of the project.
	project.Get("/notes", c.ListAll)
	project.Put("/notes/:noteId/images/attach", c.AttachImage)

	folder := project.Group("/folders/:folderId/notes")
	folder.Get("", c.List)
	folder.Post("", c.Create)
	folder.Get("/:noteId", c.Show)
	folder.Put("/:noteId", c.Update)
	folder.Delete("/:noteId", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}

	q := listQuery(ctx)
	if ctx.QueryBool("with_association") {
		res, err := c.service.ListByFolderWithAssociation(ctx.Context(), userId, projectId, folderId, q)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Folder notes", res))
	}

	res, err := c.service.ListByFolder(ctx.Context(), userId, projectId, folderId, q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes", res))
}

func (c *noteController) ListAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}

	res, err := c.service.ListAll(ctx.Context(), userId, projectId, listQuery(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, projectId, folderId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Note created", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), userId, projectId, folderId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, projectId, folderId, noteId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Note updated", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	folderId, err := parseUUIDParam(ctx, "folderId", "folder")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, projectId, folderId, noteId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Note deleted", nil))
}

func (c *noteController) AttachImage(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	projectId, err := parseUUIDParam(ctx, "projectId", "project")
	if err != nil {
		return err
	}
	noteId, err := parseUUIDParam(ctx, "noteId", "note")
	if err != nil {
		return err
	}

	var req dto.AttachImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Image == nil {
		return fiber.NewError(fiber.StatusBadRequest, "image is required")
	}
	if err := serverutils.ValidateRequest(req.Image); err != nil {
		return err
	}

	res, err := c.service.AttachImage(ctx.Context(), userId, projectId, noteId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Image attached", res))
}

func listQuery(ctx *fiber.Ctx) *dto.ListNotesQuery {
	return &dto.ListNotesQuery{
		Search: ctx.Query("search"),
		Sort:   ctx.Query("sort"),
		Page:   ctx.QueryInt("page", 1),
	}
}
