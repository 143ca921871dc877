package models

import (
	"time"

	"github.com/google/uuid"
)

type Song struct {
	ID        string `json:"id"`
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`

	// Duration в миллисекундах
	Duration int64 `json:"duration"`

	// Заполняются при выдаче трека из очереди комнаты
	Username   string `json:"user,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`
}

func NewSong(videoID, title, thumbnail string, duration time.Duration) *Song {
	return &Song{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Title:     title,
		Thumbnail: thumbnail,
		Duration:  duration.Milliseconds(),
	}
}

func (s *Song) Length() time.Duration {
	return time.Duration(s.Duration) * time.Millisecond
}
