// internal/agents/core/quality/config.go
package quality

import "time"

type Config struct {
	Timeout      time.Duration
	PassingScore float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		PassingScore: 0.7,
	}
}
