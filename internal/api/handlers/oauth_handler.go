package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/service"
)

type OAuthHandler struct {
	s   service.OAuthService
	cfg config.Config
}

func NewOAuthHandler(cfg config.Config, s service.OAuthService) *OAuthHandler {
	return &OAuthHandler{s: s, cfg: cfg}
}

func (h *OAuthHandler) Connect(c *fiber.Ctx) error {
	platform := c.Params("platform")

	authURL, err := h.s.GetAuthURL(platform, GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUnknownPlatform) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		var cfgErr *service.ConfigurationError
		if errors.As(err, &cfgErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": cfgErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.JSON(fiber.Map{
		"authUrl": authURL,
	})
}

// Callback lands here from the provider, so errors become frontend
// redirects rather than JSON.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	platform := c.Params("platform")
	code := c.Query("code")
	state := c.Query("state")

	settingsURL := h.cfg.FrontendURL + "/settings"

	if code == "" || state == "" {
		return c.Redirect(settingsURL + "?error=missing_params")
	}

	_, err := h.s.HandleCallback(c.Context(), platform, code, state)
	if err != nil {
		if errors.Is(err, service.ErrNoBusinessAccount) {
			return c.Redirect(settingsURL + "?error=no_instagram_business_account")
		}
		return c.Redirect(fmt.Sprintf("%s?error=%s_auth_failed", settingsURL, platform))
	}

	return c.Redirect(fmt.Sprintf("%s?%s_connected=true", settingsURL, platform))
}

func (h *OAuthHandler) ListConnected(c *fiber.Ctx) error {
	accounts, err := h.s.ListConnected(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.JSON(accounts)
}

func (h *OAuthHandler) Disconnect(c *fiber.Ctx) error {
	platform := c.Params("platform")

	err := h.s.Disconnect(c.Context(), GetUserID(c), platform)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPlatform):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrNotConnected):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
