package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/autopost/internal/service"
)

var validate = validator.New()

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

func parseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return err
	}
	return nil
}

// publishErrorResponse maps publish failures to HTTP responses. Missing
// server-side OAuth configuration is the only 500, everything else is the
// user's to fix.
func publishErrorResponse(c *fiber.Ctx, err error) error {
	var cfgErr *service.ConfigurationError
	if errors.As(err, &cfgErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": cfgErr.Error(),
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
