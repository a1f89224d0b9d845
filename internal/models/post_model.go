package models

import "time"

type Post struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	Platform             string    `db:"platform" json:"platform"`
	AIModel              string    `db:"ai_model" json:"ai_model"`
	Topic                string    `db:"topic" json:"topic"`
	Content              string    `db:"content" json:"content"`
	Tone                 string    `db:"tone" json:"tone"`
	Length               string    `db:"length" json:"length"`
	IncludeHashtags      bool      `db:"include_hashtags" json:"include_hashtags"`
	IncludeEmojis        bool      `db:"include_emojis" json:"include_emojis"`
	ImageURL             string    `db:"image_url" json:"image_url"`
	PublishedToLinkedin  bool      `db:"published_to_linkedin" json:"published_to_linkedin"`
	PublishedToFacebook  bool      `db:"published_to_facebook" json:"published_to_facebook"`
	PublishedToInstagram bool      `db:"published_to_instagram" json:"published_to_instagram"`
	LinkedinPostURL      string    `db:"linkedin_post_url" json:"linkedin_post_url"`
	FacebookPostURL      string    `db:"facebook_post_url" json:"facebook_post_url"`
	InstagramPostURL     string    `db:"instagram_post_url" json:"instagram_post_url"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
