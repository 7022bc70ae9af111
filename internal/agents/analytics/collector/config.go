// internal/agents/analytics/collector/config.go
package collector

import "time"

type Config struct {
	Timeout time.Duration
	Days    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Days:    30,
	}
}
