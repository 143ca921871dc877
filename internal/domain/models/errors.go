package models

import "errors"

var (
	ErrInvalidRoom      = errors.New("invalid room")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotAMember       = errors.New("not a member")
	ErrNotHost          = errors.New("not the room host")
	ErrStaleWrite       = errors.New("stale write")
	ErrInvalidVote      = errors.New("invalid vote")
	ErrCorruptRoom      = errors.New("room invariants violated")
	ErrUserNotFound     = errors.New("user not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrInvalidName      = errors.New("invalid name")
	ErrUserExists       = errors.New("user already exists")
	ErrBadCredentials   = errors.New("bad credentials")
)
