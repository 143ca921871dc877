package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/qrave1/RoomRadio/internal/application/config"
	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/application/metric"
	"github.com/qrave1/RoomRadio/internal/domain/repository"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/memory"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/postgres"
	pgrepo "github.com/qrave1/RoomRadio/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/valkey"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/handlers"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/server"
	"github.com/qrave1/RoomRadio/internal/usecase"
)

const (
	storeValkey = "valkey"
	storeMemory = "memory"
)

// roomStores - хранилища состояния комнат и доставка событий
type roomStores struct {
	rooms    repository.RoomRepository
	queues   repository.QueueRepository
	presence repository.PresenceRepository
	songs    repository.SongListRepository
	bus      repository.Broadcaster

	// run блокируется, пока жива доставка событий из других процессов
	run   func(ctx context.Context) error
	ping  metric.Check
	close func()
}

func runApp(ctx context.Context, store string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: level},
			),
		),
	)

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer dbConn.Close()

	wsConnRepo := memory.NewWSConnectionRepository()

	stores, err := newRoomStores(ctx, cfg, store, wsConnRepo)
	if err != nil {
		return err
	}
	defer stores.close()

	userRepo := pgrepo.NewUserRepo(dbConn)
	playlistRepo := pgrepo.NewPlaylistRepo(dbConn)

	locks := usecase.NewRoomLocks()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo)
	playlistUsecase := usecase.NewPlaylistUsecase(userRepo, playlistRepo, stores.songs)
	roomUsecase := usecase.NewRoomUsecase(locks, stores.rooms, stores.queues, cfg.Room.PositionMax)
	presenceUsecase := usecase.NewPresenceUsecase(stores.presence, wsConnRepo)
	queueUsecase := usecase.NewQueueUsecase(locks, stores.rooms, stores.queues, playlistUsecase, stores.bus)
	playbackUsecase := usecase.NewPlaybackUsecase(locks, stores.rooms, queueUsecase, playlistUsecase, stores.bus, cfg.Room.PlaybackBuffer)
	voteUsecase := usecase.NewVoteUsecase(locks, stores.rooms, playbackUsecase, stores.bus, cfg.Room.DislikeThreshold)
	membershipUsecase := usecase.NewMembershipUsecase(locks, stores.rooms, queueUsecase, playbackUsecase, stores.bus, cfg.Room.PositionMax)
	sessionUsecase := usecase.NewSessionUsecase(
		locks,
		stores.rooms,
		roomUsecase,
		presenceUsecase,
		membershipUsecase,
		queueUsecase,
		playbackUsecase,
		voteUsecase,
	)

	authHandler := handlers.NewAuthHandler(userUsecase, !cfg.Debug)
	roomHandler := handlers.NewRoomHandler(roomUsecase, userUsecase)
	playlistHandler := handlers.NewPlaylistHandler(playlistUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, wsConnRepo, userUsecase, sessionUsecase)

	echoSrv := server.New(cfg, authHandler, roomHandler, playlistHandler, wsHandler)
	checks := map[string]metric.Check{"postgres": dbConn.PingContext}
	if stores.ping != nil {
		checks["rooms"] = stores.ping
	}

	metricsSrv := metric.NewServer(checks)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server started", slog.String("port", cfg.Port), slog.String("store", store))

		if err := echoSrv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := metricsSrv.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return stores.run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()

		slog.Info("Shutting down servers")

		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()

		if err := echoSrv.Shutdown(timeoutCtx); err != nil {
			slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
		}

		if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
			slog.Error("Failed to gracefully shutdown metrics server", slog.Any(constant.Error, err))
		}

		return nil
	})

	return g.Wait()
}

func newRoomStores(
	ctx context.Context,
	cfg *config.Config,
	store string,
	conns memory.WebsocketConnectionRepository,
) (*roomStores, error) {
	switch store {
	case storeMemory:
		slog.Warn("room state is kept in process memory, run a single instance only")

		return &roomStores{
			rooms:    memory.NewRoomRepository(cfg.Room.CASMaxAttempts),
			queues:   memory.NewQueueRepository(),
			presence: memory.NewPresenceRepository(),
			songs:    memory.NewSongListRepository(),
			bus:      memory.NewLocalBroadcaster(conns),
			run: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
			close: func() {},
		}, nil

	case storeValkey:
		client, err := valkey.NewValkey(ctx, cfg.Valkey)
		if err != nil {
			return nil, fmt.Errorf("connect to valkey: %w", err)
		}

		bus := valkey.NewEventBus(client, conns, uuid.NewString())

		return &roomStores{
			rooms:    valkey.NewRoomRepository(client, cfg.Room.CASMaxAttempts),
			queues:   valkey.NewQueueRepository(client),
			presence: valkey.NewPresenceRepository(client, cfg.Room.PresenceTTL),
			songs:    valkey.NewSongListRepository(client),
			bus:      bus,
			run:      bus.Run,
			ping: func(ctx context.Context) error {
				return client.Do(ctx, client.B().Ping().Build()).Error()
			},
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store %q", store)
	}
}
