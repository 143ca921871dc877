// Package repository описывает контракты хранилищ, с которыми работают usecase'ы.
// Реализации лежат в infra/adapters: memory для тестов и одного процесса,
// valkey и postgres для продакшена.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/qrave1/RoomRadio/internal/domain/events"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
)

// RoomRepository хранит записи комнат. Update применяет fn к свежей версии комнаты
// и записывает результат только если версия не изменилась, иначе перечитывает и повторяет.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	Get(ctx context.Context, id string) (*models.Room, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, fn func(room *models.Room) error) (*models.Room, error)
	Delete(ctx context.Context, id string) error

	ListPublic(ctx context.Context, filter input.RoomFilter) ([]*models.Room, error)
}

// QueueRepository - кольцо имён пользователей в очереди комнаты
type QueueRepository interface {
	// Push добавляет пользователя в конец. Возвращает позицию и false, если он уже в очереди.
	Push(ctx context.Context, roomID, username string) (int, bool, error)
	Remove(ctx context.Context, roomID, username string) (bool, error)
	// Rotate переносит первого пользователя в конец и возвращает его. Пустая строка - очередь пуста.
	Rotate(ctx context.Context, roomID string) (string, error)
	List(ctx context.Context, roomID string) ([]string, error)
	Delete(ctx context.Context, roomID string) error
}

// PresenceRepository связывает живое соединение с комнатой
type PresenceRepository interface {
	Set(ctx context.Context, connID, roomID string) error
	Get(ctx context.Context, connID string) (string, error)
	Delete(ctx context.Context, connID string) error
}

// SongListRepository - упорядоченный список треков плейлиста
type SongListRepository interface {
	PopFront(ctx context.Context, playlistID string) (*models.Song, error)
	PushBack(ctx context.Context, playlistID string, song *models.Song) error
	// RemoveLast удаляет трек, если он последний в списке. Возвращает true, если удалил.
	RemoveLast(ctx context.Context, playlistID string, songID string) (bool, error)
	Remove(ctx context.Context, playlistID string, songID string) (bool, error)
	Len(ctx context.Context, playlistID string) (int64, error)
	List(ctx context.Context, playlistID string) ([]*models.Song, error)
	Delete(ctx context.Context, playlistID string) error
}

// PlaylistStore - узкий контракт плейлистов пользователя, которым пользуется ротация очереди
type PlaylistStore interface {
	// GetSelectedPlaylist возвращает пустую строку, если плейлист не выбран
	GetSelectedPlaylist(ctx context.Context, username string) (string, error)
	PopFront(ctx context.Context, username, playlistID string) (*models.Song, error)
	PushBack(ctx context.Context, username, playlistID string, song *models.Song) error
	// Retract убирает трек, уже возвращённый в конец плейлиста при ротации
	Retract(ctx context.Context, username, playlistID string, song *models.Song) error
	HasSongs(ctx context.Context, username, playlistID string) (bool, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SetSelectedPlaylist(ctx context.Context, userID uuid.UUID, playlistID uuid.NullUUID) error
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Broadcaster доставляет событие всем соединениям комнаты, в том числе в других процессах
type Broadcaster interface {
	Broadcast(ctx context.Context, roomID string, msg events.Message) error
}
