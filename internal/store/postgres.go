package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridrr/admin-backend/internal/models"
)

// PostgresStore handles all relational CRUD against PostgreSQL: staff users,
// submissions with their relations, and the published catalog tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name           VARCHAR(100) NOT NULL DEFAULT '',
			email          VARCHAR(255) UNIQUE NOT NULL,
			password       VARCHAR(255) NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS submissions (
			id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title            VARCHAR(255) NOT NULL,
			submission_type  VARCHAR(10)  NOT NULL,
			contact_email    VARCHAR(255) NOT NULL,
			twitter_handle   VARCHAR(100),
			instagram_handle VARCHAR(100),
			additional_notes TEXT,
			submitted_by     VARCHAR(255),
			status           VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at       TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS website_submissions (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			submission_id UUID NOT NULL REFERENCES submissions(id),
			url           VARCHAR(2048) NOT NULL,
			built_with    VARCHAR(255),
			tools_used    TEXT[] NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS design_submissions (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			submission_id UUID NOT NULL REFERENCES submissions(id),
			design_type   VARCHAR(100) NOT NULL,
			tools_used    TEXT[] NOT NULL DEFAULT '{}'
		);

		CREATE TABLE IF NOT EXISTS submission_media (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			submission_id UUID NOT NULL REFERENCES submissions(id),
			media_url     VARCHAR(2048) NOT NULL,
			media_type    VARCHAR(100) NOT NULL,
			file_name     VARCHAR(255) NOT NULL,
			file_size     BIGINT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS websites (
			id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title             VARCHAR(255) NOT NULL,
			url               VARCHAR(2048) UNIQUE NOT NULL,
			built_with        VARCHAR(255) NOT NULL DEFAULT '',
			tags              VARCHAR(1024) NOT NULL DEFAULT '',
			preview_video_url VARCHAR(2048) NOT NULL DEFAULT '',
			email             VARCHAR(255) NOT NULL,
			submitted_by      VARCHAR(255),
			twitter_handle    VARCHAR(100),
			instagram_handle  VARCHAR(100),
			status            VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at        TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS designs (
			id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title            VARCHAR(255) NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			designer_name    VARCHAR(255) NOT NULL,
			designer_email   VARCHAR(255) NOT NULL,
			twitter_handle   VARCHAR(100),
			instagram_handle VARCHAR(100),
			tools_used       TEXT[] NOT NULL DEFAULT '{}',
			tags             TEXT[] NOT NULL DEFAULT '{}',
			image_url        VARCHAR(2048) NOT NULL,
			status           VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at       TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, email_verified, created_at`,
		name, email, hashedPassword,
	).Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password, email_verified, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.EmailVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, email_verified, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarkEmailVerified flips the verification flag after the callback token is
// consumed.
func (s *PostgresStore) MarkEmailVerified(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
	return err
}
