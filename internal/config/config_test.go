package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("KIRVANO_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_ID", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Port)
	}
	if cfg.KirvanoToken != "" || cfg.BotToken != "" || cfg.AdminChatID != "" {
		t.Errorf("Expected empty credentials, got %+v", cfg)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("KIRVANO_TOKEN", "secret")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "42")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.KirvanoToken != "secret" || cfg.BotToken != "123:abc" || cfg.AdminChatID != "42" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
}

func TestLoadConfig_BadPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Expected fallback port 8000, got %d", cfg.Port)
	}
}
