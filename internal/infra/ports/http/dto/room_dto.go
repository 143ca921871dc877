package dto

import (
	"github.com/qrave1/RoomRadio/internal/domain/models"
)

type UpdateRoomRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Genres      []string `json:"genres"`
}

// RoomResponse - карточка комнаты в каталоге
type RoomResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Genres      []string         `json:"genres"`
	NumMembers  int              `json:"numMembers"`
	Host        *models.Identity `json:"host"`
	CurrentSong *models.Song     `json:"currentSong"`
}

type ListRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

func NewRoomResponseFromModel(r *models.Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Genres:      r.Genres,
		NumMembers:  r.NumMembers,
		Host:        r.Host,
		CurrentSong: r.CurrentSong,
	}
}
