// Package config loads process configuration from the environment, once at
// startup. The resulting value is immutable and injected into the handler
// and notifier rather than read from ambient globals.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	// KirvanoToken is the shared secret Kirvano sends with each webhook.
	// Absent means every request is accepted (development mode).
	KirvanoToken string `env:"KIRVANO_TOKEN"`

	// BotToken is the Telegram bot credential for admin notifications.
	// Absent means notifications are silently skipped.
	BotToken string `env:"BOT_TOKEN"`

	// AdminChatID is the Telegram chat that receives notifications.
	// Absent means notifications are silently skipped.
	AdminChatID string `env:"ADMIN_CHAT_ID"`

	// Port is the HTTP listen port.
	Port int `env:"PORT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.KirvanoToken = os.Getenv("KIRVANO_TOKEN")
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.AdminChatID = os.Getenv("ADMIN_CHAT_ID")
	cfg.Port = getEnvAsInt("PORT", 8000)

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
