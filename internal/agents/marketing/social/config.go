// internal/agents/marketing/social/config.go
package social

import "time"

type Config struct {
	Timeout      time.Duration
	PostsPerWeek int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		PostsPerWeek: 3,
	}
}
