package input

type CreateRoomInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Genres      []string `json:"genres"`
}

type UpdateRoomInput struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Genres      []string `json:"genres"`
}

// RoomFilter - параметры поиска публичных комнат
type RoomFilter struct {
	Search string   `json:"search" query:"search"`
	Genres []string `json:"filters" query:"genres"`
	Offset int      `json:"skip" query:"skip"`
	Limit  int      `json:"limit" query:"limit"`
}

type AddSongInput struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  int64  `json:"duration"`
}
