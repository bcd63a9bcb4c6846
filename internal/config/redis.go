package config

type Redis struct {
	// Address пустой - очередь не используется, снимки выполняются в процессе.
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
