package redis

// Config contains the distributed run lock settings.
type Config struct {
	URL string `env:"REDIS_URL"      envDefault:"redis://localhost:6379/0"`
	Key string `env:"REDIS_LOCK_KEY" envDefault:"pricesync:run-lock"`
	TTL int    `env:"REDIS_LOCK_TTL" envDefault:"1800"` // seconds; must outlast the slowest run
}
