package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting the service reads. Values come from
// app.env when present and are overridable through the environment.
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	AllowOrigins    string        `mapstructure:"ALLOW_ORIGINS"`
	StaticDir       string        `mapstructure:"STATIC_DIR"`
	LowStockLevel   int           `mapstructure:"LOW_STOCK_LEVEL"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ACCESS_TOKEN_TTL", 15*time.Minute)
	viper.SetDefault("REFRESH_TOKEN_TTL", 24*time.Hour)
	viper.SetDefault("ALLOW_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000")
	viper.SetDefault("STATIC_DIR", "./static")
	viper.SetDefault("LOW_STOCK_LEVEL", 5)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// app.env is optional, everything can come from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cf := &Config{}
	if err := viper.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cf.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cf.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cf, nil
}
