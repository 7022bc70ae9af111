// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig              `mapstructure:"app"`
	Server       ServerConfig           `mapstructure:"server"`
	Orchestrator OrchestratorConfig     `mapstructure:"orchestrator"`
	Database     DatabaseConfig         `mapstructure:"database"`
	Storage      StorageConfig          `mapstructure:"storage"`
	Agents       map[string]AgentConfig `mapstructure:"agents"`
	Integrations IntegrationConfig      `mapstructure:"integrations"`
	Logging      LoggingConfig          `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// OrchestratorConfig holds dispatch and task-queue settings.
type OrchestratorConfig struct {
	QueueSize             int `mapstructure:"queue_size"`
	Workers               int `mapstructure:"workers"`
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests"`
	RequestTimeout        int `mapstructure:"request_timeout"` // milliseconds
	RateLimitPerMinute    int `mapstructure:"rate_limit_per_minute"`
	ResultCacheTTL        int `mapstructure:"result_cache_ttl"` // seconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds settings for deliverable file output.
type StorageConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// AgentConfig holds the core settings applicable to every agent.
type AgentConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Timeout    int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// IntegrationConfig holds settings for WhatsApp, payments, and email.
type IntegrationConfig struct {
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	AWS      AWSConfig      `mapstructure:"aws"`
}

type WhatsAppConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	PhoneNumberID      string `mapstructure:"phone_number_id"`
	AccessToken        string `mapstructure:"access_token"`
	BusinessAccountID  string `mapstructure:"business_account_id"`
	WebhookVerifyToken string `mapstructure:"webhook_verify_token"`
}

type PaymentConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"` // razorpay, cashfree, paytm, phonepe

	Razorpay RazorpayConfig `mapstructure:"razorpay"`
	Cashfree CashfreeConfig `mapstructure:"cashfree"`
	Paytm    PaytmConfig    `mapstructure:"paytm"`
	PhonePe  PhonePeConfig  `mapstructure:"phonepe"`

	MerchantUPIID string `mapstructure:"merchant_upi_id"`
}

type RazorpayConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type CashfreeConfig struct {
	AppID     string `mapstructure:"app_id"`
	SecretKey string `mapstructure:"secret_key"`
}

type PaytmConfig struct {
	MerchantID  string `mapstructure:"merchant_id"`
	MerchantKey string `mapstructure:"merchant_key"`
}

type PhonePeConfig struct {
	MerchantID string `mapstructure:"merchant_id"`
	SaltKey    string `mapstructure:"salt_key"`
	SaltIndex  string `mapstructure:"salt_index"`
}

type AWSConfig struct {
	Region string    `mapstructure:"region"`
	SES    SESConfig `mapstructure:"ses"`
}

type SESConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	FromEmail string `mapstructure:"from_email"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
