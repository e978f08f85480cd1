package review

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gridrr/admin-backend/internal/models"
)

// ResubmitToken carries a subset of a submission's fields into a prefilled
// upload form, JSON-encoded then base64-encoded into the form's `data` query
// parameter. It stays unsigned: it only prefills a form that a signed-in
// reviewer edits and resubmits through fully validated endpoints.
type ResubmitToken struct {
	SubmissionID    string `json:"submissionId"`
	Title           string `json:"title"`
	ContactEmail    string `json:"contactEmail"`
	TwitterHandle   string `json:"twitterHandle"`
	InstagramHandle string `json:"instagramHandle"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
	SubmittedBy     string `json:"submitted_by"`
	CodedBy         string `json:"coded_by"`
	WebsiteURL      string `json:"websiteUrl,omitempty"`
	BuiltWith       string `json:"builtWith,omitempty"`
	ToolsUsed       string `json:"toolsUsed,omitempty"` // comma-joined, order preserving
	DesignType      string `json:"designType,omitempty"`
}

// NewResubmitToken serializes the reusable fields of a submission.
func NewResubmitToken(sub *models.Submission) ResubmitToken {
	t := ResubmitToken{
		SubmissionID:    sub.ID,
		Title:           sub.Title,
		ContactEmail:    sub.ContactEmail,
		TwitterHandle:   sub.TwitterHandle,
		InstagramHandle: sub.InstagramHandle,
		AdditionalNotes: sub.AdditionalNotes,
		SubmittedBy:     sub.SubmittedBy,
		CodedBy:         sub.SubmittedBy,
	}
	switch {
	case sub.SubmissionType == models.TypeWebsite && sub.Website != nil:
		t.WebsiteURL = sub.Website.URL
		t.BuiltWith = sub.Website.BuiltWith
		t.ToolsUsed = strings.Join(sub.Website.ToolsUsed, ",")
	case sub.SubmissionType == models.TypeDesign && sub.Design != nil:
		t.DesignType = sub.Design.DesignType
		t.ToolsUsed = strings.Join(sub.Design.ToolsUsed, ",")
	}
	return t
}

// Encode returns the base64 form of the token.
func (t ResubmitToken) Encode() string {
	raw, _ := json.Marshal(t)
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeResubmitToken parses a `data` query parameter back into a token.
func DecodeResubmitToken(encoded string) (ResubmitToken, error) {
	var t ResubmitToken
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return t, fmt.Errorf("decode token: %w", err)
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("decode token: %w", err)
	}
	return t, nil
}
