package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrr/admin-backend/internal/models"
)

type fakeSubmissionStore struct {
	subs     map[string]*models.Submission
	approved []string
	statuses map[string]string
}

func newFakeSubmissionStore(subs ...*models.Submission) *fakeSubmissionStore {
	f := &fakeSubmissionStore{subs: map[string]*models.Submission{}, statuses: map[string]string{}}
	for _, s := range subs {
		f.subs[s.ID] = s
	}
	return f
}

func (f *fakeSubmissionStore) ListSubmissions(context.Context) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.subs {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSubmissionStore) GetSubmission(_ context.Context, id string) (*models.Submission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissionStore) UpdateSubmissionStatus(_ context.Context, id, status string) error {
	if _, ok := f.subs[id]; !ok {
		return pgx.ErrNoRows
	}
	f.statuses[id] = status
	f.subs[id].Status = status
	return nil
}

func (f *fakeSubmissionStore) ApproveSubmission(_ context.Context, sub *models.Submission) error {
	f.approved = append(f.approved, sub.ID)
	f.subs[sub.ID].Status = models.StatusApproved
	return nil
}

type fakeAuditStore struct {
	events []models.ReviewEvent
}

func (f *fakeAuditStore) InsertEvent(_ context.Context, ev *models.ReviewEvent) error {
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeAuditStore) ListBySubmission(_ context.Context, id string) ([]models.ReviewEvent, error) {
	var out []models.ReviewEvent
	for _, ev := range f.events {
		if ev.SubmissionID == id {
			out = append(out, ev)
		}
	}
	return out, nil
}

func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/submissions", h.List)
	r.Get("/api/submissions/{id}", h.Get)
	r.Post("/api/submissions/{id}/status", h.UpdateStatus)
	r.Post("/api/submissions/{id}/approve", h.Approve)
	r.Get("/api/submissions/{id}/history", h.History)
	r.Get("/api/submissions/{id}/resubmit", h.Resubmit)
	return r
}

func websiteSubmission() *models.Submission {
	return &models.Submission{
		ID:             "sub-1",
		Title:          "Portfolio Site",
		SubmissionType: models.TypeWebsite,
		ContactEmail:   "alice@example.com",
		SubmittedBy:    "alice",
		Status:         models.StatusInReview,
		CreatedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Website:        &models.WebsiteDetail{URL: "https://alice.dev", ToolsUsed: []string{"Figma"}},
		Media:          []models.Media{{MediaURL: "https://cdn/a.mp4", MediaType: "video/mp4"}},
	}
}

func TestGet_NotFound(t *testing.T) {
	h := NewHandler(newFakeSubmissionStore(), &fakeAuditStore{})
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	store := newFakeSubmissionStore(websiteSubmission())
	audit := &fakeAuditStore{}
	h := NewHandler(store, audit)

	body := strings.NewReader(`{"status":"rejected"}`)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/status", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusRejected, store.statuses["sub-1"])

	require.Len(t, audit.events, 1)
	assert.Equal(t, models.StatusInReview, audit.events[0].FromStatus)
	assert.Equal(t, models.StatusRejected, audit.events[0].ToStatus)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	store := newFakeSubmissionStore(websiteSubmission())
	h := NewHandler(store, &fakeAuditStore{})

	body := strings.NewReader(`{"status":"published"}`)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/status", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.statuses)
}

func TestApprove_Website(t *testing.T) {
	store := newFakeSubmissionStore(websiteSubmission())
	audit := &fakeAuditStore{}
	h := NewHandler(store, audit)

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/approve", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sub-1"}, store.approved)

	var got models.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.StatusApproved, got.Status)

	// Transition plus publish note.
	require.Len(t, audit.events, 2)
	assert.Equal(t, models.StatusApproved, audit.events[0].ToStatus)
	assert.Contains(t, audit.events[1].Note, "https://alice.dev")
}

func TestApprove_DesignSkipsPublish(t *testing.T) {
	sub := &models.Submission{
		ID:             "sub-2",
		Title:          "Neon Poster",
		SubmissionType: models.TypeDesign,
		Status:         models.StatusPending,
		Design:         &models.DesignDetail{DesignType: "poster"},
	}
	store := newFakeSubmissionStore(sub)
	audit := &fakeAuditStore{}
	h := NewHandler(store, audit)

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-2/approve", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, audit.events, 1)
	assert.Empty(t, audit.events[0].Note)
}

func TestResubmit(t *testing.T) {
	store := newFakeSubmissionStore(websiteSubmission())
	h := NewHandler(store, &fakeAuditStore{})

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/sub-1/resubmit", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	target, err := url.Parse(resp["redirect"])
	require.NoError(t, err)
	assert.Equal(t, "/upload/website", target.Path)

	token, err := DecodeResubmitToken(target.Query().Get("data"))
	require.NoError(t, err)
	assert.Equal(t, "Portfolio Site", token.Title)
	assert.Equal(t, "alice@example.com", token.ContactEmail)
	assert.Equal(t, "Figma", token.ToolsUsed)
}

func TestHistory(t *testing.T) {
	audit := &fakeAuditStore{events: []models.ReviewEvent{
		{SubmissionID: "sub-1", FromStatus: "pending", ToStatus: "in_review"},
		{SubmissionID: "other", FromStatus: "pending", ToStatus: "rejected"},
	}}
	h := NewHandler(newFakeSubmissionStore(websiteSubmission()), audit)

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/sub-1/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var events []models.ReviewEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "in_review", events[0].ToStatus)
}

func TestList_FilterAndSortParams(t *testing.T) {
	a := websiteSubmission()
	b := &models.Submission{
		ID: "sub-2", Title: "Neon Poster", SubmissionType: models.TypeDesign,
		ContactEmail: "bob@example.com", Status: models.StatusPending,
		CreatedAt: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		Design:    &models.DesignDetail{DesignType: "poster"},
	}
	h := NewHandler(newFakeSubmissionStore(a, b), &fakeAuditStore{})

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions?status=pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "sub-2", got[0].ID)

	// Default ordering is created_at desc.
	rec = httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "sub-2", got[0].ID)
}
