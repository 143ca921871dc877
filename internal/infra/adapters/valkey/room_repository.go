package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/input"
	"github.com/qrave1/RoomRadio/internal/domain/models"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
)

// Запись комнаты меняется только если version в хеше совпадает с прочитанной.
// Заодно обновляются поля каталога и индекс публичных комнат.
var casRoomScript = valkey.NewLuaScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if not current then
	return -1
end
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1],
	'version', ARGV[2],
	'json', ARGV[3],
	'name', ARGV[4],
	'description', ARGV[5],
	'private', ARGV[6],
	'genres', ARGV[7],
	'numMembers', ARGV[8])
if ARGV[6] == 'true' then
	redis.call('ZREM', KEYS[2], ARGV[9])
else
	redis.call('ZADD', KEYS[2], ARGV[8], ARGV[9])
end
return 1
`)

type roomRepository struct {
	client      valkey.Client
	maxAttempts int
}

func NewRoomRepository(client valkey.Client, maxAttempts int) repository.RoomRepository {
	return &roomRepository{
		client:      client,
		maxAttempts: max(maxAttempts, 1),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	room.Version = 1

	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}

	cmds := valkey.Commands{
		r.client.B().Hset().Key(roomKey(room.ID)).FieldValue().
			FieldValue("id", room.ID).
			FieldValue("version", "1").
			FieldValue("json", string(data)).
			FieldValue("name", room.Name).
			FieldValue("description", room.Description).
			FieldValue("private", strconv.FormatBool(room.Private)).
			FieldValue("genres", strings.Join(room.Genres, ",")).
			FieldValue("numMembers", strconv.Itoa(room.NumMembers)).
			Build(),
	}

	if !room.Private {
		cmds = append(cmds, r.client.B().Zadd().Key(publicRoomsKey).ScoreMember().
			ScoreMember(float64(room.NumMembers), room.ID).Build())
	}

	for _, resp := range r.client.DoMulti(ctx, cmds...) {
		if err = resp.Error(); err != nil {
			return fmt.Errorf("create room %s: %w", room.ID, err)
		}
	}

	return nil
}

func (r *roomRepository) Get(ctx context.Context, id string) (*models.Room, error) {
	data, err := r.client.Do(ctx, r.client.B().Hget().Key(roomKey(id)).Field("json").Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, models.ErrInvalidRoom
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", id, err)
	}

	return decodeRoom(data)
}

func (r *roomRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Do(ctx, r.client.B().Exists().Key(roomKey(id)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("exists room %s: %w", id, err)
	}

	return n > 0, nil
}

func (r *roomRepository) Update(ctx context.Context, id string, fn func(room *models.Room) error) (*models.Room, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		room, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		expected := room.Version

		if err = fn(room); err != nil {
			return nil, err
		}

		if err = room.Validate(); err != nil {
			return nil, fmt.Errorf("validate room %s: %w", id, err)
		}

		room.Version = expected + 1

		data, err := json.Marshal(room)
		if err != nil {
			return nil, fmt.Errorf("marshal room: %w", err)
		}

		res, err := casRoomScript.Exec(
			ctx,
			r.client,
			[]string{roomKey(id), publicRoomsKey},
			[]string{
				strconv.FormatInt(expected, 10),
				strconv.FormatInt(room.Version, 10),
				string(data),
				room.Name,
				room.Description,
				strconv.FormatBool(room.Private),
				strings.Join(room.Genres, ","),
				strconv.Itoa(room.NumMembers),
				room.ID,
			},
		).AsInt64()
		if err != nil {
			return nil, fmt.Errorf("cas room %s: %w", id, err)
		}

		switch res {
		case 1:
			return room, nil
		case -1:
			return nil, models.ErrInvalidRoom
		}

		metric.RoomWriteConflict()
		slog.Warn("room version conflict, retrying",
			slog.String(constant.RoomID, id),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, fmt.Errorf("update room %s: %w", id, models.ErrStaleWrite)
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	resps := r.client.DoMulti(
		ctx,
		r.client.B().Del().Key(roomKey(id)).Build(),
		r.client.B().Zrem().Key(publicRoomsKey).Member(id).Build(),
	)

	for _, resp := range resps {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("delete room %s: %w", id, err)
		}
	}

	return nil
}

func (r *roomRepository) ListPublic(ctx context.Context, filter input.RoomFilter) ([]*models.Room, error) {
	ids, err := r.client.Do(ctx, r.client.B().Zrevrange().Key(publicRoomsKey).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list public rooms: %w", err)
	}

	if len(ids) == 0 {
		return []*models.Room{}, nil
	}

	cmds := make(valkey.Commands, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, r.client.B().Hget().Key(roomKey(id)).Field("json").Build())
	}

	rooms := make([]*models.Room, 0, len(ids))
	for i, resp := range r.client.DoMulti(ctx, cmds...) {
		data, err := resp.ToString()
		if valkey.IsValkeyNil(err) {
			// комната удалена между ZREVRANGE и HGET
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get room %s: %w", ids[i], err)
		}

		room, err := decodeRoom(data)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return models.PageRooms(rooms, filter), nil
}

func decodeRoom(data string) (*models.Room, error) {
	room := new(models.Room)
	if err := json.Unmarshal([]byte(data), room); err != nil {
		return nil, fmt.Errorf("unmarshal room: %w", err)
	}

	if room.Schema > models.RoomSchemaVersion {
		return nil, fmt.Errorf("room schema %d is newer than supported %d", room.Schema, models.RoomSchemaVersion)
	}

	if room.Members == nil {
		room.Members = make(map[string]*models.Member)
	}

	return room, nil
}
