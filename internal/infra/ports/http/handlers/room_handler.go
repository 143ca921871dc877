package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/infra/appctx"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomRadio/internal/usecase"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase
	userUsecase usecase.UserUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, userUsecase usecase.UserUsecase) *RoomHandler {
	return &RoomHandler{
		roomUsecase: roomUsecase,
		userUsecase: userUsecase,
	}
}

func (h *RoomHandler) ListRoomsHandler(c echo.Context) error {
	var filter input.RoomFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid filter"})
	}

	rooms, err := h.roomUsecase.List(c.Request().Context(), filter)
	if err != nil {
		slog.Error("list rooms", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list rooms"})
	}

	resp := dto.ListRoomsResponse{
		Rooms: make([]dto.RoomResponse, 0, len(rooms)),
	}

	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, dto.NewRoomResponseFromModel(r))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RoomHandler) GetRoomHandler(c echo.Context) error {
	room, err := h.roomUsecase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) UpdateRoomHandler(c echo.Context) error {
	var req dto.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	user, err := h.userUsecase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	room, err := h.roomUsecase.Update(c.Request().Context(), user.Username, &input.UpdateRoomInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		Genres:      req.Genres,
	})
	if err != nil {
		slog.Error("update room", slog.String(constant.RoomID, c.Param("id")), slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusOK, dto.NewRoomResponseFromModel(room))
}
