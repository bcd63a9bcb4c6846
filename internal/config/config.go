package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	App      App
	Database Database
	Postgres Postgres
	SQLite   SQLite
	HTTP     HTTP
	Redis    Redis
	Scryfall Scryfall
	History  History
	Bot      Bot
}

type App struct {
	Name                 string `env:"APP_NAME" envDefault:"magic-collector"`
	Version              string `env:"APP_VERSION" envDefault:"dev"`
	ProbeListenAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
}

type Database struct {
	Driver      string `env:"DB_DRIVER" envDefault:"sqlite3"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type History struct {
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"24h"`
	Retention        time.Duration `env:"HISTORY_RETENTION" envDefault:"8760h"`
}

type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
	// AdminID - пользователь, которому разрешены команды. По умолчанию ChatID.
	AdminID  int64 `env:"BOT_ADMIN_ID"`
	Commands bool  `env:"BOT_COMMANDS" envDefault:"true"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func (b Bot) Admin() int64 {
	if b.AdminID != 0 {
		return b.AdminID
	}

	return b.ChatID
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: PG_DSN is required for the pgx driver")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite3 driver")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}

	return nil
}
