package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/infra/appctx"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/dto"
	"github.com/qrave1/RoomRadio/internal/usecase"
)

type PlaylistHandler struct {
	playlistUsecase usecase.PlaylistUsecase
}

func NewPlaylistHandler(playlistUsecase usecase.PlaylistUsecase) *PlaylistHandler {
	return &PlaylistHandler{playlistUsecase: playlistUsecase}
}

func (h *PlaylistHandler) ListPlaylistsHandler(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	playlists, err := h.playlistUsecase.ListPlaylists(c.Request().Context(), userID)
	if err != nil {
		slog.Error("list playlists", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list playlists"})
	}

	return c.JSON(http.StatusOK, playlists)
}

func (h *PlaylistHandler) CreatePlaylistHandler(c echo.Context) error {
	var req dto.CreatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	playlist, err := h.playlistUsecase.CreatePlaylist(c.Request().Context(), userID, req.Name)
	if err != nil {
		slog.Error("create playlist", slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusCreated, playlist)
}

func (h *PlaylistHandler) GetPlaylistHandler(c echo.Context) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid playlist id"})
	}

	playlist, err := h.playlistUsecase.GetPlaylist(c.Request().Context(), userID, playlistID)
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusOK, playlist)
}

func (h *PlaylistHandler) DeletePlaylistHandler(c echo.Context) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid playlist id"})
	}

	if err = h.playlistUsecase.DeletePlaylist(c.Request().Context(), userID, playlistID); err != nil {
		slog.Error("delete playlist", slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *PlaylistHandler) SelectPlaylistHandler(c echo.Context) error {
	var req dto.SelectPlaylistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.playlistUsecase.SelectPlaylist(c.Request().Context(), userID, req.PlaylistID); err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *PlaylistHandler) AddSongHandler(c echo.Context) error {
	var req input.AddSongInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.VideoID == "" || req.Duration <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "videoId and duration are required"})
	}

	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid playlist id"})
	}

	song, err := h.playlistUsecase.AddSong(c.Request().Context(), userID, playlistID, &req)
	if err != nil {
		slog.Error("add song", slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.JSON(http.StatusCreated, song)
}

func (h *PlaylistHandler) RemoveSongHandler(c echo.Context) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid playlist id"})
	}

	if err = h.playlistUsecase.RemoveSong(c.Request().Context(), userID, playlistID, c.Param("songId")); err != nil {
		slog.Error("remove song", slog.Any(constant.Error, err))
		return c.JSON(errorStatus(err), map[string]string{"error": errorCode(err)})
	}

	return c.NoContent(http.StatusNoContent)
}

func playlistParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return uuid.Nil, uuid.Nil, echo.ErrUnauthorized
	}

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return userID, playlistID, nil
}
