package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/villagenews/video-service/domain"
)

// PostgresVideoRepository is the catalog record store backed by the videos
// table.
type PostgresVideoRepository struct {
	db *sql.DB
}

func NewPostgresVideoRepository(db *sql.DB) *PostgresVideoRepository {
	return &PostgresVideoRepository{db: db}
}

func (r *PostgresVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `INSERT INTO videos (title, description, category, region, filename, user_id, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, uploaded_at`
	err := r.db.QueryRowContext(ctx, query,
		video.Title, video.Description, video.Category, video.Region,
		video.Filename, video.UserID, video.Status,
	).Scan(&video.ID, &video.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert video record: %w", err)
	}
	return nil
}

// FindByIDAndOwner looks the record up by id and owner in a single query,
// so a record owned by someone else is indistinguishable from a missing one.
func (r *PostgresVideoRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*domain.Video, error) {
	query := `SELECT id, title, description, category, region, filename, user_id, status, uploaded_at
	          FROM videos WHERE id = $1 AND user_id = $2`
	var v domain.Video
	var category, region sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&v.ID, &v.Title, &v.Description, &category, &region,
		&v.Filename, &v.UserID, &v.Status, &v.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query video %d: %w", id, err)
	}
	v.Category = category.String
	v.Region = region.String
	return &v, nil
}

func (r *PostgresVideoRepository) FindApproved(ctx context.Context) ([]domain.CatalogEntry, error) {
	query := `SELECT v.id, v.title, v.description, v.filename, u.username AS uploader
	          FROM videos v JOIN users u ON v.user_id = u.id
	          WHERE v.status = $1
	          ORDER BY v.uploaded_at DESC`
	rows, err := r.db.QueryContext(ctx, query, domain.VideoStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("query approved videos: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Filename, &e.Uploader); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresVideoRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Video, error) {
	query := `SELECT id, title, description, category, region, filename, user_id, status, uploaded_at
	          FROM videos WHERE user_id = $1 ORDER BY uploaded_at DESC`
	return r.queryVideos(ctx, query, userID)
}

func (r *PostgresVideoRepository) FindByStatus(ctx context.Context, status domain.VideoStatus) ([]domain.Video, error) {
	query := `SELECT id, title, description, category, region, filename, user_id, status, uploaded_at
	          FROM videos WHERE status = $1 ORDER BY uploaded_at DESC`
	return r.queryVideos(ctx, query, status)
}

func (r *PostgresVideoRepository) queryVideos(ctx context.Context, query string, args ...any) ([]domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		var category, region sql.NullString
		err := rows.Scan(&v.ID, &v.Title, &v.Description, &category, &region,
			&v.Filename, &v.UserID, &v.Status, &v.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		v.Category = category.String
		v.Region = region.String
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *PostgresVideoRepository) UpdateStatus(ctx context.Context, id int64, status domain.VideoStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE videos SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update video %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresVideoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video record %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresVideoRepository) AllFilenames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT filename FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("query filenames: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ domain.VideoRepository = (*PostgresVideoRepository)(nil)
