package queue

import (
	"github.com/maheshrc27/autopost/internal/service"
)

type Queue struct {
	publisher service.PublishService
}

func NewQueue(publisher service.PublishService) *Queue {
	return &Queue{publisher: publisher}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	UserID    int64    `json:"user_id"`
	PostID    int64    `json:"post_id"`
	Platforms []string `json:"platforms"`
	Content   string   `json:"content"`
	ImageURL  string   `json:"image_url"`
}
