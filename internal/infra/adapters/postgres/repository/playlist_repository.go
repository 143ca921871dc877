package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

type playlistRepo struct {
	db *sqlx.DB
}

func NewPlaylistRepo(db *sqlx.DB) repository.PlaylistRepository {
	return &playlistRepo{db: db}
}

func (r *playlistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO playlists (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4)",
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.CreatedAt,
	)

	return err
}

func (r *playlistRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist

	err := r.db.GetContext(ctx, &playlist, "SELECT id, owner_id, name, created_at FROM playlists WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

func (r *playlistRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	var playlists []*models.Playlist

	query := `
		SELECT id, owner_id, name, created_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at
	`

	if err := r.db.SelectContext(ctx, &playlists, query, ownerID); err != nil {
		return nil, err
	}

	return playlists, nil
}

func (r *playlistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = $1", id)

	return err
}
