package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns the connection settings used when only a URL is known.
func DefaultConfig(url string) Config {
	return Config{
		ConnectionURL:  url,
		RetryAttempts:  3,
		RetryInterval:  2 * time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}
