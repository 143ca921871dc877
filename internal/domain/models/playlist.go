package models

import (
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Songs []*Song `json:"songs,omitempty" db:"-"`
}

func NewPlaylist(ownerID uuid.UUID, name string) *Playlist {
	return &Playlist{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
