package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gridrr/admin-backend/internal/models"
)

// InsertWebsite stores a new published website row (upload flow, status
// pending).
func (s *PostgresStore) InsertWebsite(ctx context.Context, w *models.Website) (*models.Website, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO websites
			(title, url, built_with, tags, preview_video_url, email,
			 submitted_by, twitter_handle, instagram_handle, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		w.Title, w.URL, w.BuiltWith, w.Tags, w.PreviewVideoURL, w.Email,
		nullable(w.SubmittedBy), nullable(w.TwitterHandle), nullable(w.InstagramHandle), w.Status,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert website: %w", err)
	}
	return w, nil
}

// InsertDesign stores a new published design row (upload flow, status
// pending).
func (s *PostgresStore) InsertDesign(ctx context.Context, d *models.Design) (*models.Design, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO designs
			(title, description, designer_name, designer_email,
			 twitter_handle, instagram_handle, tools_used, tags, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		d.Title, d.Description, d.DesignerName, d.DesignerEmail,
		nullable(d.TwitterHandle), nullable(d.InstagramHandle),
		d.ToolsUsed, d.Tags, d.ImageURL, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert design: %w", err)
	}
	return d, nil
}

// CountRows returns the row count of one of the catalog tables. The table
// name is restricted to a fixed set, never caller input.
func (s *PostgresStore) CountRows(ctx context.Context, table string) (int64, error) {
	switch table {
	case "designs", "websites", "submissions":
	default:
		return 0, fmt.Errorf("count rows: unknown table %q", table)
	}
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

// Activity is one row of the dashboard's recent-activity feed: a website
// submission joined with its parent submission.
type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SubmittedBy string    `json:"submitted_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecentActivity returns the newest website submissions with their parent
// submission's title, submitter and status.
func (s *PostgresStore) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ws.id, s.title, COALESCE(s.submitted_by, ''), s.status, s.created_at
		FROM website_submissions ws
		JOIN submissions s ON s.id = ws.submission_id
		ORDER BY s.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var items []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Title, &a.SubmittedBy, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
