package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	Username           string        `json:"username" db:"username"`
	Password           string        `json:"-" db:"password"`
	Avatar             string        `json:"profilePicture" db:"avatar"`
	SelectedPlaylistID uuid.NullUUID `json:"selectedPlaylistId" db:"selected_playlist_id"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

func NewUser() *User {
	return &User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (u *User) Identity() Identity {
	return Identity{Username: u.Username, Avatar: u.Avatar}
}
