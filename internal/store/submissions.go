package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gridrr/admin-backend/internal/models"
)

// ListSubmissions returns every submission with its detail relation and media
// attached, newest first. Search, filtering and sorting happen in the review
// package on the returned slice.
func (s *PostgresStore) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, submission_type, contact_email,
		       COALESCE(twitter_handle, ''), COALESCE(instagram_handle, ''),
		       COALESCE(additional_notes, ''), COALESCE(submitted_by, ''),
		       status, created_at
		FROM submissions
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	var ids []string
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.Title, &sub.SubmissionType, &sub.ContactEmail,
			&sub.TwitterHandle, &sub.InstagramHandle, &sub.AdditionalNotes,
			&sub.SubmittedBy, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
		ids = append(ids, sub.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return []models.Submission{}, nil
	}

	if err := s.attachRelations(ctx, subs, ids); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubmission returns a single submission with relations, or sql.ErrNoRows.
func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, submission_type, contact_email,
		       COALESCE(twitter_handle, ''), COALESCE(instagram_handle, ''),
		       COALESCE(additional_notes, ''), COALESCE(submitted_by, ''),
		       status, created_at
		FROM submissions WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.Title, &sub.SubmissionType, &sub.ContactEmail,
		&sub.TwitterHandle, &sub.InstagramHandle, &sub.AdditionalNotes,
		&sub.SubmittedBy, &sub.Status, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}

	subs := []models.Submission{sub}
	if err := s.attachRelations(ctx, subs, []string{sub.ID}); err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// attachRelations loads detail and media rows for the given submissions in
// three batched queries and wires them onto the slice in place.
func (s *PostgresStore) attachRelations(ctx context.Context, subs []models.Submission, ids []string) error {
	byID := make(map[string]*models.Submission, len(subs))
	for i := range subs {
		byID[subs[i].ID] = &subs[i]
	}

	rows, err := s.pool.Query(ctx, `
		SELECT submission_id, url, COALESCE(built_with, ''), tools_used
		FROM website_submissions WHERE submission_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("website details: %w", err)
	}
	for rows.Next() {
		var sid string
		var d models.WebsiteDetail
		if err := rows.Scan(&sid, &d.URL, &d.BuiltWith, &d.ToolsUsed); err != nil {
			rows.Close()
			return err
		}
		if sub, ok := byID[sid]; ok {
			sub.Website = &d
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT submission_id, design_type, tools_used
		FROM design_submissions WHERE submission_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("design details: %w", err)
	}
	for rows.Next() {
		var sid string
		var d models.DesignDetail
		if err := rows.Scan(&sid, &d.DesignType, &d.ToolsUsed); err != nil {
			rows.Close()
			return err
		}
		if sub, ok := byID[sid]; ok {
			sub.Design = &d
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT submission_id, media_url, media_type, file_name, file_size
		FROM submission_media WHERE submission_id = ANY($1::uuid[])
		ORDER BY created_at`, ids)
	if err != nil {
		return fmt.Errorf("submission media: %w", err)
	}
	for rows.Next() {
		var sid string
		var m models.Media
		if err := rows.Scan(&sid, &m.MediaURL, &m.MediaType, &m.FileName, &m.FileSize); err != nil {
			rows.Close()
			return err
		}
		if sub, ok := byID[sid]; ok {
			sub.Media = append(sub.Media, m)
		}
	}
	rows.Close()
	return rows.Err()
}

// UpdateSubmissionStatus writes the status directly. No ordering constraint
// is enforced between statuses.
func (s *PostgresStore) UpdateSubmissionStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE submissions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApproveSubmission marks the submission approved and, for website-type
// submissions, upserts the published catalog row keyed by URL. Both writes
// happen in one transaction.
func (s *PostgresStore) ApproveSubmission(ctx context.Context, sub *models.Submission) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approve: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE submissions SET status = $1 WHERE id = $2`,
		models.StatusApproved, sub.ID,
	); err != nil {
		return fmt.Errorf("approve status: %w", err)
	}

	if sub.SubmissionType == models.TypeWebsite && sub.Website != nil {
		previewURL := ""
		if len(sub.Media) > 0 {
			previewURL = sub.Media[0].MediaURL
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO websites
				(title, url, built_with, preview_video_url, email,
				 submitted_by, twitter_handle, instagram_handle, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (url) DO UPDATE SET
				title             = EXCLUDED.title,
				built_with        = EXCLUDED.built_with,
				preview_video_url = EXCLUDED.preview_video_url,
				email             = EXCLUDED.email,
				submitted_by      = EXCLUDED.submitted_by,
				twitter_handle    = EXCLUDED.twitter_handle,
				instagram_handle  = EXCLUDED.instagram_handle,
				status            = EXCLUDED.status`,
			sub.Title, sub.Website.URL, sub.Website.BuiltWith, previewURL,
			sub.ContactEmail, nullable(sub.SubmittedBy), nullable(sub.TwitterHandle),
			nullable(sub.InstagramHandle), models.StatusApproved,
		); err != nil {
			return fmt.Errorf("publish website: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// nullable maps "" to SQL NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
