package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/config"
	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/memory"
	"github.com/qrave1/RoomRadio/internal/infra/appctx"
	"github.com/qrave1/RoomRadio/internal/usecase"
)

var errBadMessage = errors.New("bad message")

const (
	readTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	writeTimeout   = 5 * time.Second
	cleanupTimeout = 10 * time.Second
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	conns          memory.WebsocketConnectionRepository
	userUsecase    usecase.UserUsecase
	sessionUsecase usecase.SessionUsecase
}

func NewWebSocketHandler(
	cfg *config.Config,
	conns memory.WebsocketConnectionRepository,
	userUsecase usecase.UserUsecase,
	sessionUsecase usecase.SessionUsecase,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		conns:          conns,
		userUsecase:    userUsecase,
		sessionUsecase: sessionUsecase,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	client := usecase.Client{ConnID: uuid.NewString()}
	ctx = appctx.WithConnID(ctx, client.ConnID)

	if userID, ok := appctx.UserID(ctx); ok {
		user, err := h.userUsecase.GetUserByID(ctx, userID)
		if err != nil {
			slog.Warn("resolve websocket user, continuing as guest", slog.Any(constant.Error, err))
		} else {
			identity := user.Identity()
			client.User = &identity
		}
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	h.conns.Add(client.ConnID, ws)
	metric.IncrementWSActiveConnections()

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if err := h.sessionUsecase.LeaveRoom(cleanupCtx, client); err != nil {
			slog.Error("leave room on disconnect", slog.String(constant.ConnID, client.ConnID), slog.Any(constant.Error, err))
		}

		h.conns.Remove(client.ConnID)
		metric.DecrementWSActiveConnections()
	}()

	if err = ws.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					slog.Debug("ping failed", slog.String(constant.ConnID, client.ConnID), slog.Any(constant.Error, err))
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("webSocket read error", slog.String(constant.ConnID, client.ConnID), slog.Any(constant.Error, err))
			}

			return nil
		}

		msg := new(events.Message)

		if err = json.Unmarshal(raw, msg); err != nil {
			slog.Warn("unmarshal websocket message", slog.String(constant.ConnID, client.ConnID), slog.Any(constant.Error, err))
			continue
		}

		h.conns.Write(client.ConnID, h.handleMessage(ctx, client, msg))
	}
}

// handleMessage выполняет сообщение и возвращает ответ для отправителя
func (h *WebSocketHandler) handleMessage(ctx context.Context, client usecase.Client, msg *events.Message) events.Message {
	if msg.Type == events.Ping {
		return events.Message{Type: events.Pong, Ack: msg.Ack}
	}

	data, err := h.dispatch(ctx, client, msg)
	if err != nil {
		attrs := append(appctx.Attrs(ctx),
			slog.String(constant.Event, msg.Type),
			slog.Any(constant.Error, err),
		)
		slog.LogAttrs(ctx, slog.LevelWarn, "room message declined", attrs...)

		return ack(msg.Ack, events.AckEvent{Error: errorCode(err)})
	}

	return ack(msg.Ack, events.AckEvent{Success: true, Data: data})
}

func (h *WebSocketHandler) dispatch(ctx context.Context, client usecase.Client, msg *events.Message) (any, error) {
	switch msg.Type {
	case events.CreateRoom:
		var in events.CreateRoomEvent

		if err := decode(msg, &in); err != nil {
			return nil, err
		}

		return h.sessionUsecase.CreateRoom(ctx, client, &in)

	case events.JoinRoom:
		var join events.JoinRoomEvent

		if err := decode(msg, &join); err != nil {
			return nil, err
		}

		return h.sessionUsecase.JoinRoom(ctx, client, join.RoomID)

	case events.LeaveRoom:
		return nil, h.sessionUsecase.LeaveRoom(ctx, client)

	case events.Position:
		var pos events.PositionEvent

		if err := decode(msg, &pos); err != nil {
			return nil, err
		}

		return nil, h.sessionUsecase.ChangePosition(ctx, client, pos.Position)

	case events.JoinQueue:
		return h.sessionUsecase.JoinQueue(ctx, client)

	case events.LeaveQueue:
		return nil, h.sessionUsecase.LeaveQueue(ctx, client)

	case events.Vote:
		var vote events.VoteEvent

		if err := decode(msg, &vote); err != nil {
			return nil, err
		}

		return nil, h.sessionUsecase.Vote(ctx, client, vote.Type)

	case events.Skip:
		return h.sessionUsecase.Skip(ctx, client)

	default:
		return nil, fmt.Errorf("%w: unknown type %q", errBadMessage, msg.Type)
	}
}

func decode(msg *events.Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: empty %s payload", errBadMessage, msg.Type)
	}

	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: unmarshal %s: %v", errBadMessage, msg.Type, err)
	}

	return nil
}

func ack(id string, payload events.AckEvent) events.Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(events.AckEvent{Error: errorCode(err)})
	}

	return events.Message{Type: events.Ack, Ack: id, Data: data}
}
