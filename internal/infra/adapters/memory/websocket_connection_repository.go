package memory

import (
	"log/slog"
	"sync"

	"github.com/qrave1/RoomRadio/internal/application/constant"
)

// JSONWriter - то, что умеет *websocket.Conn
type JSONWriter interface {
	WriteJSON(v any) error
}

// WebsocketConnectionRepository хранит живые соединения этого процесса и комнату,
// к которой каждое из них сейчас привязано
type WebsocketConnectionRepository interface {
	Add(connID string, conn JSONWriter)
	Remove(connID string)

	Bind(connID, roomID string)
	Unbind(connID string)
	UnbindRoom(roomID string) []string

	Write(connID string, payload any)
	WriteRoom(roomID string, payload any) int
}

type safeWS struct {
	conn   JSONWriter
	roomID string
	mu     sync.Mutex
}

type wsConnectionRepository struct {
	// wsConns хранит map[conn_id]*safeWS
	wsConns map[string]*safeWS
	// rooms хранит map[room_id]set[conn_id]
	rooms map[string]map[string]struct{}

	mu sync.RWMutex
}

func NewWSConnectionRepository() WebsocketConnectionRepository {
	return &wsConnectionRepository{
		wsConns: make(map[string]*safeWS, 10),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (w *wsConnectionRepository) Add(connID string, conn JSONWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.wsConns[connID] = &safeWS{conn: conn}
}

func (w *wsConnectionRepository) Remove(connID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.unbindLocked(connID)
	delete(w.wsConns, connID)
}

func (w *wsConnectionRepository) Bind(connID, roomID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.wsConns[connID]
	if !ok {
		return
	}

	w.unbindLocked(connID)

	ws.roomID = roomID
	if w.rooms[roomID] == nil {
		w.rooms[roomID] = make(map[string]struct{})
	}
	w.rooms[roomID][connID] = struct{}{}
}

func (w *wsConnectionRepository) Unbind(connID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.unbindLocked(connID)
}

// UnbindRoom отвязывает все локальные соединения комнаты и возвращает их id
func (w *wsConnectionRepository) UnbindRoom(roomID string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]string, 0, len(w.rooms[roomID]))
	for connID := range w.rooms[roomID] {
		ids = append(ids, connID)
		if ws, ok := w.wsConns[connID]; ok {
			ws.roomID = ""
		}
	}
	delete(w.rooms, roomID)

	return ids
}

func (w *wsConnectionRepository) Write(connID string, payload any) {
	w.mu.RLock()
	safews, ok := w.wsConns[connID]
	w.mu.RUnlock()

	if !ok {
		slog.Error("get websocket", slog.String(constant.ConnID, connID))
		return
	}

	safews.write(connID, payload)
}

// WriteRoom пишет payload во все локальные соединения комнаты, возвращает число получателей
func (w *wsConnectionRepository) WriteRoom(roomID string, payload any) int {
	w.mu.RLock()
	targets := make(map[string]*safeWS, len(w.rooms[roomID]))
	for connID := range w.rooms[roomID] {
		if ws, ok := w.wsConns[connID]; ok {
			targets[connID] = ws
		}
	}
	w.mu.RUnlock()

	for connID, ws := range targets {
		ws.write(connID, payload)
	}

	return len(targets)
}

func (w *wsConnectionRepository) unbindLocked(connID string) {
	ws, ok := w.wsConns[connID]
	if !ok || ws.roomID == "" {
		return
	}

	if conns, ok := w.rooms[ws.roomID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(w.rooms, ws.roomID)
		}
	}
	ws.roomID = ""
}

func (s *safeWS) write(connID string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.WriteJSON(payload); err != nil {
		slog.Error("write to websocket", slog.String(constant.ConnID, connID), slog.Any(constant.Error, err))
	}
}
