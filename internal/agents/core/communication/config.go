// internal/agents/core/communication/config.go
package communication

import "time"

type Config struct {
	Timeout        time.Duration
	DefaultChannel string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		DefaultChannel: "whatsapp",
	}
}
