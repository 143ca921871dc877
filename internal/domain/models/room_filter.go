package models

import (
	"cmp"
	"slices"
	"strings"

	"github.com/qrave1/RoomRadio/internal/domain/input"
)

const defaultRoomPageSize = 20

// Matches - подходит ли комната под фильтр каталога. Приватные комнаты не ищутся никогда.
func (r *Room) Matches(f input.RoomFilter) bool {
	if r.Private {
		return false
	}

	if q := strings.TrimSpace(strings.ToLower(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}

	if len(f.Genres) == 0 {
		return true
	}

	for _, g := range f.Genres {
		if slices.Contains(r.Genres, g) {
			return true
		}
	}

	return false
}

// PageRooms фильтрует, сортирует по числу участников и режет страницу
func PageRooms(rooms []*Room, f input.RoomFilter) []*Room {
	out := make([]*Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Matches(f) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b *Room) int {
		if c := cmp.Compare(b.NumMembers, a.NumMembers); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = defaultRoomPageSize
	}

	offset := max(f.Offset, 0)
	if offset >= len(out) {
		return []*Room{}
	}

	return out[offset:min(offset+limit, len(out))]
}
