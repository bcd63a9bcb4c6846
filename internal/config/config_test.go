package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/config"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(rq *require.Assertions, cfg config.Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(rq *require.Assertions, cfg config.Config) {
				rq.Equal(config.DriverSQLite, cfg.Database.Driver)
				rq.Equal("collection.db", cfg.SQLite.Path)
				rq.Equal(24*time.Hour, cfg.History.SnapshotInterval)
				rq.False(cfg.Bot.Enabled())
				rq.True(cfg.Bot.Commands)
			},
		},
		{
			name: "postgres",
			env: map[string]string{
				"DB_DRIVER":         "pgx",
				"PG_DSN":            "postgres://localhost/cards",
				"SNAPSHOT_INTERVAL": "1h",
			},
			check: func(rq *require.Assertions, cfg config.Config) {
				rq.Equal(config.DriverPostgres, cfg.Database.Driver)
				rq.Equal(time.Hour, cfg.History.SnapshotInterval)
			},
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"DB_DRIVER": "pgx"},
			wantErr: "PG_DSN is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "mysql"},
			wantErr: `unsupported DB_DRIVER "mysql"`,
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"SNAPSHOT_INTERVAL": "daily"},
			wantErr: "env.Parse",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tc.wantErr != "" {
				rq.ErrorContains(err, tc.wantErr)
				return
			}

			rq.NoError(err)
			tc.check(rq, cfg)
		})
	}
}

func TestBot_Admin(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	rq.EqualValues(42, config.Bot{ChatID: 42}.Admin())
	rq.EqualValues(7, config.Bot{ChatID: 42, AdminID: 7}.Admin())
	rq.True(config.Bot{Token: "t", ChatID: 42}.Enabled())
	rq.False(config.Bot{Token: "t"}.Enabled())
}
