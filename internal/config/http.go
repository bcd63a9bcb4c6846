package config

import "time"

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Scryfall struct {
	BaseURL      string        `env:"SCRYFALL_BASE_URL" envDefault:"https://api.scryfall.com"`
	Timeout      time.Duration `env:"SCRYFALL_TIMEOUT" envDefault:"10s"`
	RequestDelay time.Duration `env:"SCRYFALL_REQUEST_DELAY" envDefault:"100ms"`
	CacheTTL     time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`
	// Offline отключает обращения к Scryfall: каталог только локальный.
	Offline bool `env:"SCRYFALL_OFFLINE" envDefault:"false"`
}
