package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestTelegramConfigured(t *testing.T) {
	cfg := &Cfg{}
	if cfg.TelegramConfigured() {
		t.Error("Empty credentials should not count as configured")
	}

	cfg.TelegramBotToken = "token"
	if cfg.TelegramConfigured() {
		t.Error("Token without chat id should not count as configured")
	}

	cfg.TelegramChatID = "12345"
	if !cfg.TelegramConfigured() {
		t.Error("Token and chat id together should count as configured")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		TelegramBotToken: "token",
		TelegramChatID:   "12345",
		StorageBackend:   "file",
		DataDir:          "./data",
		DBPath:           "./data/drophunt.db",
		RedisAddr:        "localhost:6379",
		Port:             "8080",
		SourcesFile:      "./sources.yml",
		WorkerCount:      2,
		CheckInterval:    3600,
		SendDelay:        2,
		APIAccessKey:     "test-key",
		UserAgent:        "Test Agent",
		Timezone:         "UTC",
		Debug:            true,
		Version:          "test-version",
	}

	if cfg.StorageBackend != "file" {
		t.Errorf("Expected storage backend 'file', got '%s'", cfg.StorageBackend)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.CheckInterval != 3600 {
		t.Errorf("Expected check interval 3600, got %d", cfg.CheckInterval)
	}
	if cfg.SendDelay != 2 {
		t.Errorf("Expected send delay 2, got %d", cfg.SendDelay)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be true")
	}
}
