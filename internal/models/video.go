package models

import "time"

// Video is the public metadata of a YouTube video, as returned by the Data API.
type Video struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	ChannelID              string    `json:"channel_id"`
	ChannelTitle           string    `json:"channel_title"`
	PublishedAt            time.Time `json:"published_at"`
	Duration               string    `json:"duration"`
	DurationSeconds        int       `json:"duration_seconds"`
	ViewCount              int64     `json:"view_count"`
	LikeCount              int64     `json:"like_count"`
	CommentCount           int64     `json:"comment_count"`
	ChannelSubscriberCount int64     `json:"channel_subscriber_count"`
	ViewsPerDay            float64   `json:"views_per_day"`
	EngagementRatio        float64   `json:"engagement_ratio"`
	URL                    string    `json:"url"`
}
