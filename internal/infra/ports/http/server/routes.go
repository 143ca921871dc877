package server

import (
	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomRadio/internal/application/config"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/handlers"
	"github.com/qrave1/RoomRadio/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	playlistHandler *handlers.PlaylistHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// анонимные соединения могут смотреть комнату, но не менять её
		api.GET("/v1/ws", wsHandler.Handle, middleware.OptionalJWTMiddleware(cfg.JWTSecret))

		api.GET("/v1/rooms", roomHandler.ListRoomsHandler)
		api.GET("/v1/rooms/:id", roomHandler.GetRoomHandler)

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			v1.PUT("/rooms/:id", roomHandler.UpdateRoomHandler)

			v1.GET("/playlists", playlistHandler.ListPlaylistsHandler)
			v1.POST("/playlists", playlistHandler.CreatePlaylistHandler)
			v1.PUT("/playlists/selected", playlistHandler.SelectPlaylistHandler)
			v1.GET("/playlists/:id", playlistHandler.GetPlaylistHandler)
			v1.DELETE("/playlists/:id", playlistHandler.DeletePlaylistHandler)
			v1.POST("/playlists/:id/songs", playlistHandler.AddSongHandler)
			v1.DELETE("/playlists/:id/songs/:songId", playlistHandler.RemoveSongHandler)
		}
	}

	e.Static("/", "web")

	return e
}
