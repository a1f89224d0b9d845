package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/autopost/internal/service"
	"github.com/maheshrc27/autopost/internal/transfer"
)

type AdminHandler struct {
	s service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{s: s}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.s.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, pagination, err := h.s.ListUsers(c.Context(), c.Query("search"), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	detail, err := h.s.GetUserDetail(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(detail)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req transfer.UserCreateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userID, err := h.s.CreateUser(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "create", "user", userID, "created "+req.Email, c.IP())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": userID,
	})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req transfer.UserUpdateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.s.UpdateUser(c.Context(), userID, &req); err != nil {
		return h.userError(c, err)
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "update", "user", userID, "", c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req transfer.RoleUpdateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Admins cannot demote themselves, that is how a deployment ends up
	// with no admin at all.
	if userID == GetUserID(c) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "you cannot change your own role",
		})
	}

	if err := h.s.SetRole(c.Context(), userID, req.Role); err != nil {
		return h.userError(c, err)
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "update_role", "user", userID, "role="+req.Role, c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req transfer.PasswordResetRequest
	if err := parseAndValidate(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.s.ResetPassword(c.Context(), userID, req.Password); err != nil {
		return h.userError(c, err)
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "reset_password", "user", userID, "", c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req transfer.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if userID == GetUserID(c) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "you cannot deactivate your own account",
		})
	}

	if err := h.s.SetActive(c.Context(), userID, req.IsActive); err != nil {
		return h.userError(c, err)
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "update_status", "user", userID, fmt.Sprintf("is_active=%t", req.IsActive), c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	if userID == GetUserID(c) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "you cannot delete your own account",
		})
	}

	if err := h.s.DeleteUser(c.Context(), userID); err != nil {
		return h.userError(c, err)
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "delete", "user", userID, "", c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.s.ListSettings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(settings)
}

func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var req transfer.SettingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.s.UpdateSetting(c.Context(), key, req.Value, GetUserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "update", "setting", 0, key, c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) ReloadSettings(c *fiber.Ctx) error {
	if err := h.s.ReloadSettings(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	h.s.RecordAction(c.Context(), GetUserID(c), "reload", "settings", 0, "", c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	logs, pagination, err := h.s.ListAuditLogs(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(fiber.Map{
		"logs":       logs,
		"pagination": pagination,
	})
}

func (h *AdminHandler) userError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "something went wrong",
	})
}
