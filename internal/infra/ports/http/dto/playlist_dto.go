package dto

import "github.com/google/uuid"

type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

type SelectPlaylistRequest struct {
	// PlaylistID uuid.Nil снимает выбор
	PlaylistID uuid.UUID `json:"playlistId"`
}
