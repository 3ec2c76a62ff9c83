// internal/workers/matching/rank-candidates/config.go
package rankcandidates

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultPageSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		DefaultPageSize: 20,
	}
}
