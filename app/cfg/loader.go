package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Telegram destination. Deliberately not required at parse time:
	// the trigger endpoint reports missing credentials as a structured
	// error instead of refusing to start.
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token"`
	TelegramChatID   string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat id to post giveaways to"`

	// Storage configuration
	StorageBackend string `long:"storage-backend" env:"STORAGE_BACKEND" default:"file" choice:"file" choice:"sqlite" choice:"redis" choice:"memory" description:"Snapshot storage backend"`
	DataDir        string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Data directory for the file backend"`
	DBPath         string `long:"db-path" env:"DB_PATH" default:"./data/drophunt.db" description:"SQLite database path for the sqlite backend"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the redis backend"`

	// Application configuration
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesFile   string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Optional per-source tuning file"`
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	CheckInterval int    `long:"check-interval" env:"CHECK_INTERVAL" default:"3600" description:"Giveaway check interval in seconds"`
	SendDelay     int    `long:"send-delay" env:"SEND_DELAY" default:"2" description:"Delay between consecutive Telegram sends in seconds"`
	APIAccessKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the trigger endpoint (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Drophunt/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Kyiv)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		TelegramBotToken: raw.TelegramBotToken,
		TelegramChatID:   raw.TelegramChatID,
		StorageBackend:   raw.StorageBackend,
		DataDir:          raw.DataDir,
		DBPath:           raw.DBPath,
		RedisAddr:        raw.RedisAddr,
		Port:             raw.Port,
		SourcesFile:      raw.SourcesFile,
		WorkerCount:      raw.WorkerCount,
		CheckInterval:    raw.CheckInterval,
		SendDelay:        raw.SendDelay,
		APIAccessKey:     raw.APIAccessKey,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
