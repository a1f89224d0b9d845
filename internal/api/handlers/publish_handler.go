package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/autopost/internal/queue"
	"github.com/maheshrc27/autopost/internal/service"
	"github.com/maheshrc27/autopost/internal/transfer"
)

type PublishHandler struct {
	publisher   service.PublishService
	AsynqClient *asynq.Client
}

func NewPublishHandler(publisher service.PublishService, asynqClient *asynq.Client) *PublishHandler {
	return &PublishHandler{publisher: publisher, AsynqClient: asynqClient}
}

func (h *PublishHandler) PublishOne(c *fiber.Ctx) error {
	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "content is required",
		})
	}

	userID := GetUserID(c)
	platform := c.Params("platform")

	result, err := h.publisher.Publish(c.Context(), userID, platform, req.Content, req.ImageURL)
	if err != nil {
		return publishErrorResponse(c, err)
	}

	if req.PostID > 0 {
		if err := h.publisher.RecordPublish(c.Context(), userID, req.PostID, platform, result.URL, req.ImageURL); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "published but failed to update the post",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"postId":  result.PostID,
		"url":     result.URL,
	})
}

func (h *PublishHandler) PublishBatch(c *fiber.Ctx) error {
	var req transfer.BatchPublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}
	if req.Content == "" || len(req.Platforms) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "content and at least one platform are required",
		})
	}

	userID := GetUserID(c)
	result := h.publisher.PublishMany(c.Context(), userID, req.Platforms, req.Content, req.ImageURL)

	if req.PostID > 0 {
		for platform, published := range result.Results {
			if err := h.publisher.RecordPublish(c.Context(), userID, req.PostID, platform, published.URL, req.ImageURL); err != nil {
				result.Errors = append(result.Errors, platform+": published but failed to update the post")
			}
		}
	}

	status := fiber.StatusOK
	if !result.Success {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(result)
}

func (h *PublishHandler) Schedule(c *fiber.Ctx) error {
	var req transfer.SchedulePublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}
	if req.Content == "" || len(req.Platforms) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "content and at least one platform are required",
		})
	}
	if req.DelaySecs < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "delay must not be negative",
		})
	}

	payload := queue.PublishPostPayload{
		UserID:    GetUserID(c),
		PostID:    req.PostID,
		Platforms: req.Platforms,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
	}

	delay := time.Duration(req.DelaySecs) * time.Second
	if err := queue.EnqueuePublish(h.AsynqClient, payload, delay); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to schedule the publish",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success":     true,
		"scheduledIn": req.DelaySecs,
	})
}
