package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/shared"
)

// VideoRepository persists [models.VideoAsset] history.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new [VideoRepository] with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts asset, assigning an ID and creation time when missing.
func (r *VideoRepository) Create(ctx context.Context, asset *models.VideoAsset) error {
	if asset.Path == "" || asset.Operation == "" {
		return fmt.Errorf("%w: video asset needs a path and an operation", shared.ErrInvalidInput)
	}
	if asset.ID == "" {
		asset.ID = shared.GenerateID()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO video_assets (id, operation, prompt, path, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, asset.ID, asset.Operation, asset.Prompt, asset.Path, asset.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert video asset: %w", err)
	}
	return nil
}

// Get retrieves a video asset by ID.
func (r *VideoRepository) Get(ctx context.Context, id string) (*models.VideoAsset, error) {
	query := `SELECT id, operation, prompt, path, created_at FROM video_assets WHERE id = ?`

	var a models.VideoAsset
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Operation, &a.Prompt, &a.Path, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video asset not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video asset: %w", err)
	}
	return &a, nil
}

// List returns up to limit assets, newest first. A non-positive limit returns all.
func (r *VideoRepository) List(ctx context.Context, limit int) ([]*models.VideoAsset, error) {
	query := `SELECT id, operation, prompt, path, created_at FROM video_assets ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query video assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.VideoAsset
	for rows.Next() {
		var a models.VideoAsset
		if err := rows.Scan(&a.ID, &a.Operation, &a.Prompt, &a.Path, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video asset: %w", err)
		}
		assets = append(assets, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video assets: %w", err)
	}
	return assets, nil
}

// Delete removes the record. The file on disk is left alone.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM video_assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete video asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video asset not found: %s", id)
	}
	return nil
}

// DeleteAll clears the history and returns how many records were removed.
func (r *VideoRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM video_assets")
	if err != nil {
		return 0, fmt.Errorf("failed to clear video assets: %w", err)
	}
	return result.RowsAffected()
}
