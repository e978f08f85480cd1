package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gridrr/admin-backend/internal/store"
)

// storageAllowance is the bucket size the usage gauge is measured against.
const storageAllowance = 50 << 30 // 50GB

const activityLimit = 5

// StatsStore defines the relational queries backing the dashboard.
type StatsStore interface {
	CountRows(ctx context.Context, table string) (int64, error)
	RecentActivity(ctx context.Context, limit int) ([]store.Activity, error)
}

// MediaUsage reports the total size of stored media.
type MediaUsage interface {
	Usage(ctx context.Context) (totalBytes int64, objects int, err error)
}

// Handler serves the dashboard stats endpoint.
type Handler struct {
	store StatsStore
	media MediaUsage
}

func NewHandler(st StatsStore, media MediaUsage) *Handler {
	return &Handler{store: st, media: media}
}

// Stats is the GET /api/dashboard/stats response.
type Stats struct {
	TotalDesigns      int64            `json:"total_designs"`
	TotalWebsites     int64            `json:"total_websites"`
	ActiveSubmissions int64            `json:"active_submissions"`
	StorageUsed       string           `json:"storage_used"`
	StorageBytes      int64            `json:"storage_bytes"`
	RecentActivity    []store.Activity `json:"recent_activity"`
}

// Get assembles counts, the storage gauge and the recent-activity feed. The
// storage probe is diagnostic: a failure logs and reports 0%, it never fails
// the request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var stats Stats
	var err error

	if stats.TotalDesigns, err = h.store.CountRows(ctx, "designs"); err != nil {
		h.dbError(w, err)
		return
	}
	if stats.TotalWebsites, err = h.store.CountRows(ctx, "websites"); err != nil {
		h.dbError(w, err)
		return
	}
	if stats.ActiveSubmissions, err = h.store.CountRows(ctx, "submissions"); err != nil {
		h.dbError(w, err)
		return
	}

	if bytes, _, err := h.media.Usage(ctx); err != nil {
		log.Printf("storage usage: %v", err)
		stats.StorageUsed = "0%"
	} else {
		stats.StorageBytes = bytes
		stats.StorageUsed = fmt.Sprintf("%d%%", bytes*100/storageAllowance)
	}

	activity, err := h.store.RecentActivity(ctx, activityLimit)
	if err != nil {
		h.dbError(w, err)
		return
	}
	if activity == nil {
		activity = []store.Activity{}
	}
	stats.RecentActivity = activity

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *Handler) dbError(w http.ResponseWriter, err error) {
	log.Printf("dashboard stats: %v", err)
	http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
}
