package config

import (
	"go-stock-portfolio/pkg/config"
)

// AlphaVantage holds quote provider configuration.
type AlphaVantage struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Security holds token signing and session configuration.
type Security struct {
	SecretKey  string `mapstructure:"secret_key"`
	SessionTTL string `mapstructure:"session_ttl"`
}

// Mail holds SMTP transport and link building configuration.
type Mail struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	From         string `mapstructure:"from"`
	BaseURL      string `mapstructure:"base_url"`
}

// Scheduler holds the nightly valuation refresh configuration.
type Scheduler struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// Config holds the full configuration for the portfolio service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	AlphaVantage AlphaVantage    `mapstructure:"alpha_vantage"`
	Security     Security        `mapstructure:"security"`
	Mail         Mail            `mapstructure:"mail"`
	Scheduler    Scheduler       `mapstructure:"scheduler"`
}

// Load loads the portfolio service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
