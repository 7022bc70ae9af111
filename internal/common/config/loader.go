// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like WHATSAPP_ACCESS_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Per-environment overrides
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from multiple possible locations so the binary works
// from the repo root, cmd dirs, and test dirs alike.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known env vars when the yaml
// left them empty (placeholders that did not expand).
func overrideEmptyConfig(cfg *Config) {
	// WhatsApp Business API
	if cfg.Integrations.WhatsApp.AccessToken == "" {
		if val := os.Getenv("WHATSAPP_ACCESS_TOKEN"); val != "" {
			cfg.Integrations.WhatsApp.AccessToken = val
		}
	}
	if cfg.Integrations.WhatsApp.PhoneNumberID == "" {
		if val := os.Getenv("WHATSAPP_PHONE_NUMBER_ID"); val != "" {
			cfg.Integrations.WhatsApp.PhoneNumberID = val
		}
	}
	if cfg.Integrations.WhatsApp.BusinessAccountID == "" {
		if val := os.Getenv("WHATSAPP_BUSINESS_ACCOUNT_ID"); val != "" {
			cfg.Integrations.WhatsApp.BusinessAccountID = val
		}
	}
	if cfg.Integrations.WhatsApp.WebhookVerifyToken == "" {
		if val := os.Getenv("WHATSAPP_WEBHOOK_VERIFY_TOKEN"); val != "" {
			cfg.Integrations.WhatsApp.WebhookVerifyToken = val
		}
	}

	// Payment providers
	if cfg.Integrations.Payment.Razorpay.KeyID == "" {
		if val := os.Getenv("RAZORPAY_KEY_ID"); val != "" {
			cfg.Integrations.Payment.Razorpay.KeyID = val
		}
	}
	if cfg.Integrations.Payment.Razorpay.KeySecret == "" {
		if val := os.Getenv("RAZORPAY_KEY_SECRET"); val != "" {
			cfg.Integrations.Payment.Razorpay.KeySecret = val
		}
	}
	if cfg.Integrations.Payment.Razorpay.WebhookSecret == "" {
		if val := os.Getenv("RAZORPAY_WEBHOOK_SECRET"); val != "" {
			cfg.Integrations.Payment.Razorpay.WebhookSecret = val
		}
	}
	if cfg.Integrations.Payment.Cashfree.AppID == "" {
		if val := os.Getenv("CASHFREE_APP_ID"); val != "" {
			cfg.Integrations.Payment.Cashfree.AppID = val
		}
	}
	if cfg.Integrations.Payment.Cashfree.SecretKey == "" {
		if val := os.Getenv("CASHFREE_SECRET_KEY"); val != "" {
			cfg.Integrations.Payment.Cashfree.SecretKey = val
		}
	}
	if cfg.Integrations.Payment.MerchantUPIID == "" {
		if val := os.Getenv("MERCHANT_UPI_ID"); val != "" {
			cfg.Integrations.Payment.MerchantUPIID = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bizauto-agents"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Orchestrator.QueueSize == 0 {
		cfg.Orchestrator.QueueSize = 100
	}
	if cfg.Orchestrator.Workers == 0 {
		cfg.Orchestrator.Workers = 4
	}
	if cfg.Orchestrator.MaxConcurrentRequests == 0 {
		cfg.Orchestrator.MaxConcurrentRequests = 10
	}
	if cfg.Orchestrator.RequestTimeout == 0 {
		cfg.Orchestrator.RequestTimeout = 30000
	}
	if cfg.Orchestrator.RateLimitPerMinute == 0 {
		cfg.Orchestrator.RateLimitPerMinute = 60
	}
	if cfg.Orchestrator.ResultCacheTTL == 0 {
		cfg.Orchestrator.ResultCacheTTL = 300
	}

	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "output"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Agents == nil {
		cfg.Agents = make(map[string]AgentConfig)
	}
	for name, agent := range cfg.Agents {
		if agent.Timeout == 0 {
			agent.Timeout = 10000
			cfg.Agents[name] = agent
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Orchestrator.QueueSize < 1 {
		return fmt.Errorf("orchestrator.queue_size must be positive, got %d", cfg.Orchestrator.QueueSize)
	}
	if cfg.Orchestrator.Workers < 1 {
		return fmt.Errorf("orchestrator.workers must be positive, got %d", cfg.Orchestrator.Workers)
	}

	if cfg.Integrations.Payment.Enabled {
		switch cfg.Integrations.Payment.Provider {
		case "razorpay", "cashfree", "paytm", "phonepe":
		default:
			return fmt.Errorf("unsupported payment provider: %q", cfg.Integrations.Payment.Provider)
		}
	}

	if cfg.Integrations.WhatsApp.Enabled {
		if cfg.Integrations.WhatsApp.AccessToken == "" {
			return fmt.Errorf("whatsapp enabled but access_token is empty")
		}
		if cfg.Integrations.WhatsApp.PhoneNumberID == "" {
			return fmt.Errorf("whatsapp enabled but phone_number_id is empty")
		}
	}

	return nil
}
