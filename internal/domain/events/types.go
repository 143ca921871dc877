package events

import (
	"encoding/json"
	"time"

	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
)

// Исходящие события комнаты
const (
	UserJoin       = "user_join"
	UserLeave      = "user_leave"
	NewHost        = "new_host"
	RoomClosed     = "room_closed"
	UserJoinQueue  = "user_join_queue"
	UserLeaveQueue = "user_leave_queue"
	PlaySong       = "play_song"
	StopSong       = "stop_song"
	UserVote       = "user_vote"
	PosChange      = "pos_change"
	Ack            = "ack"
	Pong           = "pong"
)

// Входящие сообщения от клиента
const (
	CreateRoom = "create_room"
	JoinRoom   = "join_room"
	LeaveRoom  = "leave_room"
	Position   = "pos_change"
	JoinQueue  = "join_queue"
	LeaveQueue = "leave_queue"
	Vote       = "vote"
	Skip       = "skip"
	Ping       = "ping"
)

// Message - общее событие
type Message struct {
	Type string          `json:"type"`
	Ack  string          `json:"ack,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage упаковывает payload в Message
func NewMessage(typ string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: typ}, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Type: typ, Data: data}, nil
}

// Envelope - событие комнаты в шине, Origin нужен только для логов
type Envelope struct {
	RoomID  string  `json:"roomId"`
	Origin  string  `json:"origin"`
	Message Message `json:"message"`
}

// AckEvent - ответ на входящее сообщение, уходит только отправителю
type AckEvent struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JoinRoomEvent - входящее сообщение join_room
type JoinRoomEvent struct {
	RoomID string `json:"roomId"`
}

type CreateRoomEvent = input.CreateRoomInput

type VoteEvent struct {
	Type string `json:"type"`
}

type PositionEvent struct {
	Position models.Position `json:"position"`
}

// JoinRoomResult - данные ack на join_room/create_room
type JoinRoomResult struct {
	Guest bool         `json:"guest"`
	Room  *models.Room `json:"room"`
}

type UserJoinEvent struct {
	User     models.Identity `json:"user"`
	Position models.Position `json:"position"`
}

type UserLeaveEvent struct {
	Username string `json:"username"`
}

type NewHostEvent struct {
	Old models.Identity `json:"old"`
	New models.Identity `json:"new"`
}

type UserJoinQueueEvent struct {
	Position int             `json:"position"`
	User     models.Identity `json:"user"`
}

type UserLeaveQueueEvent struct {
	Username string `json:"username"`
}

type PlaySongEvent struct {
	Song      *models.Song `json:"song"`
	Username  string       `json:"username"`
	StartTime time.Time    `json:"startTime"`
}

type UserVoteEvent struct {
	Votes map[string]models.VoteKind `json:"votes"`
}

type PosChangeEvent struct {
	Username string          `json:"username"`
	Position models.Position `json:"position"`
}
