package dto

import (
	"github.com/google/uuid"

	"github.com/qrave1/RoomRadio/internal/domain/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"profilePicture"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type GetMeResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Avatar             string     `json:"profilePicture"`
	SelectedPlaylistID *uuid.UUID `json:"selectedPlaylistId"`
}

func NewGetMeResponse(u *models.User) GetMeResponse {
	resp := GetMeResponse{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}

	if u.SelectedPlaylistID.Valid {
		id := u.SelectedPlaylistID.UUID
		resp.SelectedPlaylistID = &id
	}

	return resp
}
