// internal/agents/marketing/campaign/config.go
package campaign

import "time"

type Config struct {
	Timeout       time.Duration
	DefaultWeeks  int
	DefaultBudget float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		DefaultWeeks:  4,
		DefaultBudget: 5000,
	}
}
