package handlers

import (
	"Cuisinade/domain"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/internal/middleware"
	"Cuisinade/pkg/admin"

	"github.com/gofiber/fiber/v2"
)

const adminLocation = "/admin"

type (
	AdminHandler interface {
		Dashboard(c *fiber.Ctx) error
		Stats(c *fiber.Ctx) error
		ToggleAdmin(c *fiber.Ctx) error
		DeleteUser(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
	}

	adminHandler struct {
		adminService admin.AdminService
	}
)

func NewAdminHandler(adminService admin.AdminService) AdminHandler {
	return &adminHandler{
		adminService: adminService,
	}
}

func (h *adminHandler) Dashboard(c *fiber.Ctx) error {
	res, err := h.adminService.GetDashboard(c.UserContext(), middleware.Auth(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDashboard, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *adminHandler) Stats(c *fiber.Ctx) error {
	res, err := h.adminService.GetStats(c.UserContext(), middleware.Auth(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetDashboard, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}

func (h *adminHandler) ToggleAdmin(c *fiber.Ctx) error {
	res, err := h.adminService.ToggleAdmin(c.UserContext(), middleware.Auth(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedModeration, err)
	}
	return presenters.RedirectResponse(c, adminLocation, domain.MessageSuccessToggleAdmin, "", res)
}

func (h *adminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.adminService.DeleteUser(c.UserContext(), middleware.Auth(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedModeration, err)
	}
	return presenters.RedirectResponse(c, adminLocation, domain.MessageSuccessDeleteUser, "", nil)
}

func (h *adminHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.adminService.DeleteRecipe(c.UserContext(), middleware.Auth(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedModeration, err)
	}
	return presenters.RedirectResponse(c, adminLocation, domain.MessageSuccessDeleteRecipe, "", nil)
}

func (h *adminHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.adminService.DeleteComment(c.UserContext(), middleware.Auth(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedModeration, err)
	}
	return presenters.RedirectResponse(c, adminLocation, domain.MessageSuccessDeleteComment, "", nil)
}
