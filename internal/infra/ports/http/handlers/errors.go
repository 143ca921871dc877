package handlers

import (
	"errors"
	"net/http"

	"github.com/qrave1/RoomRadio/internal/domain/models"
)

// errorCode - код отказа, который видит клиент. Внутренние ошибки наружу не уходят.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadMessage):
		return "bad_message"
	case errors.Is(err, models.ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, models.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, models.ErrNotAMember):
		return "not_a_member"
	case errors.Is(err, models.ErrNotHost):
		return "not_host"
	case errors.Is(err, models.ErrStaleWrite):
		return "stale_write"
	case errors.Is(err, models.ErrInvalidVote):
		return "invalid_vote"
	case errors.Is(err, models.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, models.ErrPlaylistNotFound):
		return "playlist_not_found"
	case errors.Is(err, models.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, models.ErrUserExists):
		return "user_exists"
	case errors.Is(err, models.ErrBadCredentials):
		return "invalid_credentials"
	default:
		return "internal"
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidRoom),
		errors.Is(err, models.ErrPlaylistNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotAMember),
		errors.Is(err, models.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, models.ErrStaleWrite),
		errors.Is(err, models.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, errBadMessage),
		errors.Is(err, models.ErrInvalidVote),
		errors.Is(err, models.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
