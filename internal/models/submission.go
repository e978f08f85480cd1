package models

import "time"

// Submission statuses. Transitions are direct status writes; any status may
// be set to any other.
const (
	StatusPending  = "pending"
	StatusInReview = "in_review"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission types.
const (
	TypeWebsite = "website"
	TypeDesign  = "design"
)

// ValidStatus reports whether s is a known submission status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// WebsiteDetail is the website-specific half of a submission.
type WebsiteDetail struct {
	URL       string   `json:"url"`
	BuiltWith string   `json:"built_with,omitempty"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// DesignDetail is the design-specific half of a submission.
type DesignDetail struct {
	DesignType string   `json:"design_type"`
	ToolsUsed  []string `json:"tools_used,omitempty"`
}

// Media is an uploaded attachment belonging to a submission.
type Media struct {
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
}

// Submission is a user-proposed catalog entry awaiting staff review.
// SubmissionType selects which detail is populated: exactly one of Website
// or Design is non-nil.
type Submission struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	SubmissionType  string         `json:"submission_type"`
	ContactEmail    string         `json:"contact_email"`
	TwitterHandle   string         `json:"twitter_handle,omitempty"`
	InstagramHandle string         `json:"instagram_handle,omitempty"`
	AdditionalNotes string         `json:"additional_notes,omitempty"`
	SubmittedBy     string         `json:"submitted_by,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	Website         *WebsiteDetail `json:"website,omitempty"`
	Design          *DesignDetail  `json:"design,omitempty"`
	Media           []Media        `json:"media,omitempty"`
}

// StatusRequest is the JSON body for POST /api/submissions/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}
