package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Amazon  AmazonConfig  `yaml:"amazon"`
	Report  ReportConfig  `yaml:"report"`
	HTTP    HTTPConfig    `yaml:"http"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// AWSConfig holds AWS configuration for the secret store
type AWSConfig struct {
	Region string `yaml:"region"`
}

// AmazonConfig holds Login with Amazon and Advertising API endpoints
type AmazonConfig struct {
	AuthBaseURL string `yaml:"auth_base_url"`
	AdsBaseURL  string `yaml:"ads_base_url"`
	ProfileID   string `yaml:"profile_id"` // Amazon-Advertising-API-Scope header value
}

// ReportConfig holds report request configuration
type ReportConfig struct {
	LookbackDays int `yaml:"lookback_days"`
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	CACertPath  string        `yaml:"ca_cert_path"`
	InsecureTLS bool          `yaml:"insecure_tls"`
}

// ServerConfig holds local gateway configuration
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	DefaultRegion       = "us-east-1"
	DefaultAuthBaseURL  = "https://api.amazon.com"
	DefaultAdsBaseURL   = "https://advertising-api.amazon.com"
	DefaultLookbackDays = 30
	DefaultHTTPTimeout  = 30 * time.Second
)

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", DefaultRegion),
		},
		Amazon: AmazonConfig{
			AuthBaseURL: getEnv("AMAZON_AUTH_BASE_URL", DefaultAuthBaseURL),
			AdsBaseURL:  getEnv("AMAZON_ADS_BASE_URL", DefaultAdsBaseURL),
			ProfileID:   getEnv("AMAZON_ADS_PROFILE_ID", ""),
		},
		Report: ReportConfig{
			LookbackDays: getEnvInt("REPORT_LOOKBACK_DAYS", DefaultLookbackDays),
		},
		HTTP: HTTPConfig{
			Timeout:     getEnvDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
			CACertPath:  getEnv("HTTP_CA_CERT_PATH", ""),
			InsecureTLS: getEnvBool("HTTP_INSECURE_TLS", false),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// HasProfileID returns true if the advertising profile is configured
func (c *Config) HasProfileID() bool {
	return strings.TrimSpace(c.Amazon.ProfileID) != ""
}

// ReportMode returns a description of the current report submission mode
func (c *Config) ReportMode() string {
	if c.HasProfileID() {
		return "Profile " + c.Amazon.ProfileID
	}
	return "Disabled (no advertising profile)"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
