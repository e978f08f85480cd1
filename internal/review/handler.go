package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/gridrr/admin-backend/internal/auth"
	"github.com/gridrr/admin-backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SubmissionStore defines the interface for submission persistence.
type SubmissionStore interface {
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id, status string) error
	ApproveSubmission(ctx context.Context, sub *models.Submission) error
}

// AuditStore defines the interface for the review audit trail.
type AuditStore interface {
	InsertEvent(ctx context.Context, ev *models.ReviewEvent) error
	ListBySubmission(ctx context.Context, submissionID string) ([]models.ReviewEvent, error)
}

// Handler holds the submission-review HTTP handlers.
type Handler struct {
	store SubmissionStore
	audit AuditStore
}

func NewHandler(store SubmissionStore, audit AuditStore) *Handler {
	return &Handler{store: store, audit: audit}
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

// List returns submissions with relations, filtered and sorted by query
// parameters: q (substring search), status (exact, "all" disables), sort
// (column) and dir (asc|desc, default created_at desc).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListSubmissions(r.Context())
	if err != nil {
		log.Printf("list submissions: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	subs = FilterSubmissions(subs, q.Get("q"), q.Get("status"))

	column := q.Get("sort")
	dir := q.Get("dir")
	if column == "" {
		column, dir = SortCreatedAt, "desc"
	}
	SortSubmissions(subs, column, dir)

	writeJSON(w, http.StatusOK, subs)
}

// Get returns a single submission with relations.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.store.GetSubmission(r.Context(), id)
	if err != nil {
		if notFound(err) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("get submission %s: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// UpdateStatus writes the requested status directly. Any status may be set
// to any other; the transition is recorded in the audit trail.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(req.Status) {
		http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
		return
	}

	sub, err := h.store.GetSubmission(r.Context(), id)
	if err != nil {
		if notFound(err) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.store.UpdateSubmissionStatus(r.Context(), id, req.Status); err != nil {
		log.Printf("update status %s: %v", id, err)
		http.Error(w, `{"error":"failed to update status"}`, http.StatusInternalServerError)
		return
	}

	h.recordEvent(r.Context(), &models.ReviewEvent{
		SubmissionID: id,
		Actor:        auth.UserID(r.Context()),
		FromStatus:   sub.Status,
		ToStatus:     req.Status,
	})

	sub.Status = req.Status
	writeJSON(w, http.StatusOK, sub)
}

// Approve marks the submission approved and, for website-type submissions,
// publishes (upserts) the catalog row keyed by URL. Both writes share one
// transaction.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.store.GetSubmission(r.Context(), id)
	if err != nil {
		if notFound(err) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.store.ApproveSubmission(r.Context(), sub); err != nil {
		log.Printf("approve %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("failed to approve submission: %v", err),
		})
		return
	}

	h.recordEvent(r.Context(), &models.ReviewEvent{
		SubmissionID: id,
		Actor:        auth.UserID(r.Context()),
		FromStatus:   sub.Status,
		ToStatus:     models.StatusApproved,
	})
	if sub.SubmissionType == models.TypeWebsite && sub.Website != nil {
		h.recordEvent(r.Context(), &models.ReviewEvent{
			SubmissionID: id,
			Actor:        auth.UserID(r.Context()),
			FromStatus:   models.StatusApproved,
			ToStatus:     models.StatusApproved,
			Note:         "website published to catalog: " + sub.Website.URL,
		})
	}

	sub.Status = models.StatusApproved
	writeJSON(w, http.StatusOK, sub)
}

// History returns the audit trail for a submission, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, err := h.audit.ListBySubmission(r.Context(), id)
	if err != nil {
		log.Printf("history %s: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.ReviewEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Resubmit serializes the submission into an opaque token and returns the
// upload-form path that will consume it as its `data` query parameter.
func (h *Handler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.store.GetSubmission(r.Context(), id)
	if err != nil {
		if notFound(err) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	token := NewResubmitToken(sub)
	redirect := fmt.Sprintf("/upload/%s?data=%s", sub.SubmissionType, url.QueryEscape(token.Encode()))
	writeJSON(w, http.StatusOK, map[string]string{"redirect": redirect})
}

// recordEvent appends to the audit trail. Failures are logged, never
// surfaced to the caller.
func (h *Handler) recordEvent(ctx context.Context, ev *models.ReviewEvent) {
	if err := h.audit.InsertEvent(ctx, ev); err != nil {
		log.Printf("audit event for %s: %v", ev.SubmissionID, err)
	}
}
