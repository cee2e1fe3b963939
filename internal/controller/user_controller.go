package controller

import (
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/pkg/serverutils"
	"github.com/momonga11/notenext-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/user")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Profile)
	h.Put("", c.Update)
	h.Delete("", c.Delete)
	h.Put("/avatar", c.UploadAvatar)
	h.Delete("/avatar", c.DeleteAvatar)
}

func (c *userController) Profile(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	res, err := c.service.Profile(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	var req dto.UpdateAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateAccount(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	if err := c.service.DeleteAccount(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted", nil))
}

func (c *userController) UploadAvatar(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	var req dto.ImagePayload
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UploadAvatar(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Avatar uploaded", res))
}

func (c *userController) DeleteAvatar(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	if err := c.service.DeleteAvatar(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Avatar removed", nil))
}
