package models

import "time"

// Website is a published catalog entry, keyed by URL for idempotent upsert.
type Website struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	BuiltWith       string    `json:"built_with,omitempty"`
	Tags            string    `json:"tags,omitempty"`
	PreviewVideoURL string    `json:"preview_video_url,omitempty"`
	Email           string    `json:"email"`
	SubmittedBy     string    `json:"submitted_by,omitempty"`
	TwitterHandle   string    `json:"twitter_handle,omitempty"`
	InstagramHandle string    `json:"instagram_handle,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Design is a published catalog entry created directly by the design upload
// flow.
type Design struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DesignerName    string    `json:"designer_name"`
	DesignerEmail   string    `json:"designer_email"`
	TwitterHandle   string    `json:"twitter_handle,omitempty"`
	InstagramHandle string    `json:"instagram_handle,omitempty"`
	ToolsUsed       []string  `json:"tools_used,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	ImageURL        string    `json:"image_url"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
