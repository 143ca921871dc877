package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	Port        string `env:"PORT" envDefault:"3000"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	Domain      string `env:"DOMAIN" envDefault:"http://localhost:3000"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	Valkey   ValkeyConfig
	Postgres PostgresConfig
	Room     RoomConfig
}

type ValkeyConfig struct {
	Addr     string `env:"VALKEY_ADDR" envDefault:"localhost:6379"`
	Password string `env:"VALKEY_PASSWORD"`
	DB       int    `env:"VALKEY_DB" envDefault:"0"`
}

// RoomConfig - параметры движка комнат
type RoomConfig struct {
	// PlaybackBuffer добавляется к длительности трека перед переключением на следующий
	PlaybackBuffer time.Duration `env:"PLAYBACK_BUFFER" envDefault:"5s"`

	// DislikeThreshold - сколько дизлайков нужно для пропуска трека
	DislikeThreshold int `env:"DISLIKE_THRESHOLD" envDefault:"1"`

	CASMaxAttempts int           `env:"CAS_MAX_ATTEMPTS" envDefault:"5"`
	PositionMax    int           `env:"ROOM_POSITION_MAX" envDefault:"300"`
	PresenceTTL    time.Duration `env:"PRESENCE_TTL" envDefault:"24h"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"roomradio"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

func New() (*Config, error) {
	// .env опционален, в проде всё приходит из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if c.Room.DislikeThreshold < 1 {
		c.Room.DislikeThreshold = 1
	}

	if c.Room.CASMaxAttempts < 1 {
		c.Room.CASMaxAttempts = 1
	}

	return &c, nil
}
