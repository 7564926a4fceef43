// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	SecretKey       string `mapstructure:"SECRET_KEY"`
	Port            string `mapstructure:"PORT"`
	BaseURL         string `mapstructure:"BASE_URL"`
	Env             string `mapstructure:"APP_ENV"`
	DBHost          string `mapstructure:"DB_HOST"`
	DBPort          string `mapstructure:"DB_PORT"`
	DBUser          string `mapstructure:"DB_USER"`
	DBPassword      string `mapstructure:"DB_PASSWORD"`
	DBName          string `mapstructure:"DB_NAME"`
	DBSSLMode       string `mapstructure:"DB_SSLMODE"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	MailHost        string `mapstructure:"MAIL_HOST"`
	MailPort        int    `mapstructure:"MAIL_PORT"`
	MailUsername    string `mapstructure:"MAIL_USERNAME"`
	MailPassword    string `mapstructure:"MAIL_PASSWORD"`
	MailSender      string `mapstructure:"MAIL_SENDER"`
	TranslateAPIURL string `mapstructure:"TRANSLATE_API_URL"`
	PictureDir      string `mapstructure:"PICTURE_DIR"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults are
	// enough to boot in development.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			log.Printf("no profile-specific config 'config.%s.yml' found, using base config", env)
		}
	}

	viper.SetDefault("PORT", "8390")
	viper.SetDefault("BASE_URL", "http://localhost:8390")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "poustovnik")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SECRET_KEY", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("MAIL_HOST", "localhost")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("MAIL_SENDER", "noreply@poustovnik.local")
	viper.SetDefault("TRANSLATE_API_URL", "http://localhost:5000/translate")
	viper.SetDefault("PICTURE_DIR", "static/profile_pictures")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.BaseURL == "" {
		return errors.New("BASE_URL is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.SecretKey == "your-secret-key-change-in-production" {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.MailHost == "" || c.MailUsername == "" {
			return errors.New("MAIL_HOST and MAIL_USERNAME are required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		if len(c.SecretKey) < 32 {
			log.Println("WARNING: SECRET_KEY is shorter than 32 characters. Use a stronger secret for production.")
		}
	}

	return nil
}
