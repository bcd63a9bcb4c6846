package config

import "time"

type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type SQLite struct {
	Path         string `env:"SQLITE_PATH" envDefault:"collection.db"`
	MaxOpenConns int    `env:"SQLITE_MAX_OPEN_CONNS" envDefault:"4"`
}
