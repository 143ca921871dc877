package constant

// Ключи атрибутов slog
const (
	Error    = "error"
	UserID   = "user_id"
	UserName = "username"
	RoomID   = "room_id"
	ConnID   = "conn_id"
	Event    = "event"
	SongID   = "song_id"
)
