package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/RoomRadio/internal/domain/input"
)

// RoomSchemaVersion - версия формата сериализованной комнаты в хранилище
const RoomSchemaVersion = 1

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Identity - пользователь в том виде, в каком его видят остальные участники
type Identity struct {
	Username string `json:"username"`
	Avatar   string `json:"profilePicture"`
}

type Member struct {
	Username string   `json:"username"`
	Avatar   string   `json:"profilePicture"`
	Joined   int      `json:"joined"`
	Position Position `json:"position"`

	// JoinSeq - порядковый номер входа, по нему выбирается новый хост
	JoinSeq int64 `json:"joinSeq"`
}

func (m *Member) Identity() Identity {
	return Identity{Username: m.Username, Avatar: m.Avatar}
}

type Room struct {
	Schema  int   `json:"schema"`
	Version int64 `json:"version"`

	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Genres      []string `json:"genres"`

	Host       *Identity          `json:"host"`
	NumMembers int                `json:"numMembers"`
	Members    map[string]*Member `json:"members"`
	NextSeq    int64              `json:"nextSeq"`

	CurrentSong *Song               `json:"currentSong"`
	StartTime   *time.Time          `json:"startTime"`
	Votes       map[string]VoteKind `json:"votes"`

	// Playback растёт при каждой смене трека. По нему любой процесс понимает,
	// что таймер или скип относятся к уже сменившемуся треку.
	Playback int64 `json:"playback"`

	// Queue не хранится в записи комнаты, заполняется при отдаче клиенту
	Queue []string `json:"queue,omitempty"`
}

func NewRoom(in *input.CreateRoomInput) *Room {
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}

	return &Room{
		Schema:      RoomSchemaVersion,
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Private:     in.Private,
		Genres:      genres,
		Members:     make(map[string]*Member),
	}
}

func (r *Room) IsMember(username string) bool {
	_, ok := r.Members[username]
	return ok
}

func (r *Room) IsHost(username string) bool {
	return r.Host != nil && r.Host.Username == username
}

// AddMember добавляет нового участника либо увеличивает счётчик подключений существующего.
// Возвращает участника и true, если он вошёл впервые.
func (r *Room) AddMember(id Identity, pos Position) (*Member, bool) {
	if m, ok := r.Members[id.Username]; ok {
		m.Joined++
		return m, false
	}

	r.NextSeq++
	m := &Member{
		Username: id.Username,
		Avatar:   id.Avatar,
		Joined:   1,
		Position: pos,
		JoinSeq:  r.NextSeq,
	}

	r.Members[id.Username] = m
	r.NumMembers = len(r.Members)

	return m, true
}

// ReleaseMember снимает одно подключение участника. Возвращает true, если участник удалён.
func (r *Room) ReleaseMember(username string) bool {
	m, ok := r.Members[username]
	if !ok {
		return false
	}

	m.Joined--
	if m.Joined > 0 {
		return false
	}

	delete(r.Members, username)
	r.NumMembers = len(r.Members)

	return true
}

// NextHost - оставшийся участник с наименьшим JoinSeq
func (r *Room) NextHost() *Member {
	var next *Member
	for _, m := range r.Members {
		if next == nil || m.JoinSeq < next.JoinSeq {
			next = m
		}
	}

	return next
}

// UnmarshalJSON восстанавливает пустые коллекции, которые в JSON могут прийти как null
func (r *Room) UnmarshalJSON(data []byte) error {
	type plain Room
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	if r.Members == nil {
		r.Members = make(map[string]*Member)
	}

	switch {
	case r.CurrentSong == nil:
		r.Votes = nil
	case r.Votes == nil:
		r.Votes = make(map[string]VoteKind)
	}

	return nil
}

// Deadline - момент, после которого текущий трек считается доигранным
func (r *Room) Deadline(buffer time.Duration) time.Time {
	if r.CurrentSong == nil || r.StartTime == nil {
		return time.Time{}
	}

	return r.StartTime.Add(r.CurrentSong.Length() + buffer)
}

// SetSong переключает текущий трек. Голоса всегда сбрасываются.
func (r *Room) SetSong(song *Song, startedAt time.Time) {
	r.Playback++

	if song == nil {
		r.CurrentSong = nil
		r.StartTime = nil
		r.Votes = nil
		return
	}

	r.CurrentSong = song
	r.StartTime = &startedAt
	r.Votes = make(map[string]VoteKind)
}

// Validate проверяет инварианты комнаты перед записью
func (r *Room) Validate() error {
	if r.NumMembers != len(r.Members) {
		return ErrCorruptRoom
	}

	if (r.CurrentSong == nil) != (r.Votes == nil) {
		return ErrCorruptRoom
	}

	if r.Host != nil && !r.IsMember(r.Host.Username) {
		return ErrCorruptRoom
	}

	return nil
}

// Vote записывает голос за текущий трек. none удаляет голос. Возвращает false, если ничего не изменилось.
func (r *Room) Vote(username string, kind VoteKind) bool {
	if r.CurrentSong == nil {
		return false
	}

	prev, ok := r.Votes[username]

	if kind == VoteNone {
		if !ok {
			return false
		}
		delete(r.Votes, username)
		return true
	}

	if ok && prev == kind {
		return false
	}

	r.Votes[username] = kind

	return true
}

func (r *Room) Dislikes() int {
	n := 0
	for _, k := range r.Votes {
		if k == VoteDislike {
			n++
		}
	}

	return n
}

// VotesSnapshot - копия голосов для рассылки
func (r *Room) VotesSnapshot() map[string]VoteKind {
	out := make(map[string]VoteKind, len(r.Votes))
	for u, k := range r.Votes {
		out[u] = k
	}

	return out
}
