// internal/agents/website/seo/config.go
package seo

import "time"

type Config struct {
	Timeout     time.Duration
	MaxKeywords int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		MaxKeywords: 15,
	}
}
