package review

import (
	"sort"
	"strings"

	"github.com/gridrr/admin-backend/internal/models"
)

// FilterSubmissions applies a case-insensitive substring search over title,
// submitter, id and contact email, intersected with an exact status filter.
// An empty query matches everything; status "all" or "" disables the filter.
func FilterSubmissions(subs []models.Submission, query, status string) []models.Submission {
	q := strings.ToLower(query)
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if q != "" {
			match := strings.Contains(strings.ToLower(s.Title), q) ||
				strings.Contains(strings.ToLower(s.SubmittedBy), q) ||
				strings.Contains(strings.ToLower(s.ID), q) ||
				strings.Contains(strings.ToLower(s.ContactEmail), q)
			if !match {
				continue
			}
		}
		if status != "" && status != "all" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Sortable columns.
const (
	SortID          = "id"
	SortTitle       = "title"
	SortSubmittedBy = "submitted_by"
	SortCreatedAt   = "created_at"
	SortStatus      = "status"
)

// SortSubmissions orders by a single column. created_at compares numerically,
// the rest lexicographically; empty values sort to the ascending front, so a
// descending sort is always the exact reverse of the ascending one. Unknown
// columns fall back to created_at.
func SortSubmissions(subs []models.Submission, column, dir string) {
	desc := dir == "desc"

	less := func(a, b models.Submission) bool {
		switch column {
		case SortID:
			return a.ID < b.ID
		case SortTitle:
			return a.Title < b.Title
		case SortSubmittedBy:
			return a.SubmittedBy < b.SubmittedBy
		case SortStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(subs, func(i, j int) bool {
		if desc {
			return less(subs[j], subs[i])
		}
		return less(subs[i], subs[j])
	})
}
