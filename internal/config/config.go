package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Auth         AuthConfig         `yaml:"auth"`
	Credits      CreditsConfig      `yaml:"credits"`
	Invites      InvitesConfig      `yaml:"invites"`
	Scraper      ScraperConfig      `yaml:"scraper"`
	Verification VerificationConfig `yaml:"verification"`
	Instantly    InstantlyConfig    `yaml:"instantly"`
	Smartlead    SmartleadConfig    `yaml:"smartlead"`
	PlusVibe     PlusVibeConfig     `yaml:"plusvibe"`
	Mailer       MailerConfig       `yaml:"mailer"`
	Storage      StorageConfig      `yaml:"storage"`
	Worker       WorkerConfig       `yaml:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// BaseURL is the externally visible origin, used for OAuth callbacks.
	BaseURL string `yaml:"base_url"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds Redis connection settings for the worker lock
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// AuthConfig holds Google OAuth authentication configuration
type AuthConfig struct {
	Enabled            bool   `yaml:"enabled"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	AdminDomain        string `yaml:"admin_domain"`
	CookieName         string `yaml:"cookie_name"`
	CookieMaxAge       int    `yaml:"cookie_max_age"`
}

// CreditsConfig holds the credit pricing knobs
type CreditsConfig struct {
	SignupGrant   int64 `yaml:"signup_grant"`
	CostPerLead   int64 `yaml:"cost_per_lead"`
	ExportCostPer int64 `yaml:"export_cost_per_lead"`
}

// InvitesConfig holds invite issuance settings
type InvitesConfig struct {
	TTLHours     int   `yaml:"ttl_hours"`
	DefaultGrant int64 `yaml:"default_grant"`
}

// TTL returns the invite lifetime as a duration
func (c InvitesConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ScraperConfig holds the external scraper engine API settings
type ScraperConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// VerificationConfig holds email verification provider settings
type VerificationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c VerificationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InstantlyConfig holds Instantly API configuration
type InstantlyConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c InstantlyConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SmartleadConfig holds Smartlead API configuration
type SmartleadConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c SmartleadConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PlusVibeConfig holds PlusVibe API configuration
type PlusVibeConfig struct {
	APIKey         string `yaml:"api_key"`
	WorkspaceID    string `yaml:"workspace_id"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c PlusVibeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MailerConfig holds AWS SES settings for invite and approval mail
type MailerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// StorageConfig holds S3 settings for archived export artifacts
type StorageConfig struct {
	Enabled    bool   `yaml:"enabled"`
	S3Bucket   string `yaml:"s3_bucket"`
	AWSRegion  string `yaml:"aws_region"`
	AWSProfile string `yaml:"aws_profile"` // empty uses the default credential chain
}

// GetAWSProfile returns the AWS profile, with environment override
func (c StorageConfig) GetAWSProfile() string {
	if p := os.Getenv("AWS_PROFILE_OVERRIDE"); p != "" {
		if p == "none" || p == "iam" {
			return ""
		}
		return p
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "" // running on ECS, use the task role
	}
	return c.AWSProfile
}

// WorkerConfig holds the scrape-job poller settings
type WorkerConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	MaxJobDurationMins  int `yaml:"max_job_duration_mins"`
	LockTTLSeconds      int `yaml:"lock_ttl_seconds"`
}

// PollInterval returns the poll cadence as a duration
func (c WorkerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// MaxJobDuration returns the running-job timeout as a duration
func (c WorkerConfig) MaxJobDuration() time.Duration {
	return time.Duration(c.MaxJobDurationMins) * time.Minute
}

// LockTTL returns the distributed lock TTL as a duration
func (c WorkerConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "leadforge_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400
	}
	if cfg.Credits.SignupGrant == 0 {
		cfg.Credits.SignupGrant = 100
	}
	if cfg.Credits.CostPerLead == 0 {
		cfg.Credits.CostPerLead = 1
	}
	if cfg.Invites.TTLHours == 0 {
		cfg.Invites.TTLHours = 168 // one week
	}
	if cfg.Invites.DefaultGrant == 0 {
		cfg.Invites.DefaultGrant = 100
	}
	if cfg.Scraper.TimeoutSeconds == 0 {
		cfg.Scraper.TimeoutSeconds = 30
	}
	if cfg.Verification.TimeoutSeconds == 0 {
		cfg.Verification.TimeoutSeconds = 30
	}
	if cfg.Instantly.BaseURL == "" {
		cfg.Instantly.BaseURL = "https://api.instantly.ai/api/v2"
	}
	if cfg.Instantly.TimeoutSeconds == 0 {
		cfg.Instantly.TimeoutSeconds = 30
	}
	if cfg.Smartlead.BaseURL == "" {
		cfg.Smartlead.BaseURL = "https://server.smartlead.ai/api/v1"
	}
	if cfg.Smartlead.TimeoutSeconds == 0 {
		cfg.Smartlead.TimeoutSeconds = 30
	}
	if cfg.PlusVibe.BaseURL == "" {
		cfg.PlusVibe.BaseURL = "https://api.plusvibe.ai/api/v1"
	}
	if cfg.PlusVibe.TimeoutSeconds == 0 {
		cfg.PlusVibe.TimeoutSeconds = 30
	}
	if cfg.Mailer.Region == "" {
		cfg.Mailer.Region = "us-west-2"
	}
	if cfg.Worker.PollIntervalSeconds == 0 {
		cfg.Worker.PollIntervalSeconds = 15
	}
	if cfg.Worker.MaxJobDurationMins == 0 {
		cfg.Worker.MaxJobDurationMins = 60
	}
	if cfg.Worker.LockTTLSeconds == 0 {
		cfg.Worker.LockTTLSeconds = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file first (if present), so secrets can live in .env
// locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("SCRAPER_BASE_URL"); v != "" {
		cfg.Scraper.BaseURL = v
	}
	if v := os.Getenv("SCRAPER_API_KEY"); v != "" {
		cfg.Scraper.APIKey = v
	}
	if v := os.Getenv("VERIFIER_BASE_URL"); v != "" {
		cfg.Verification.BaseURL = v
	}
	if v := os.Getenv("VERIFIER_API_KEY"); v != "" {
		cfg.Verification.APIKey = v
		cfg.Verification.Enabled = true
	}
	if v := os.Getenv("INSTANTLY_API_KEY"); v != "" {
		cfg.Instantly.APIKey = v
		cfg.Instantly.Enabled = true
	}
	if v := os.Getenv("SMARTLEAD_API_KEY"); v != "" {
		cfg.Smartlead.APIKey = v
		cfg.Smartlead.Enabled = true
	}
	if v := os.Getenv("PLUSVIBE_API_KEY"); v != "" {
		cfg.PlusVibe.APIKey = v
		cfg.PlusVibe.Enabled = true
	}
	if v := os.Getenv("PLUSVIBE_WORKSPACE_ID"); v != "" {
		cfg.PlusVibe.WorkspaceID = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Mailer.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Mailer.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Mailer.Region = v
	}
	if v := os.Getenv("EXPORT_S3_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
		cfg.Storage.Enabled = true
	}

	return cfg, nil
}
