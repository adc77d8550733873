package cfg

type Cfg struct {
	// Telegram destination
	TelegramBotToken string
	TelegramChatID   string

	// Storage configuration
	StorageBackend string
	DataDir        string
	DBPath         string
	RedisAddr      string

	// Application configuration
	Port          string
	SourcesFile   string
	WorkerCount   int
	CheckInterval int
	SendDelay     int
	APIAccessKey  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// TelegramConfigured reports whether both credentials needed to reach
// the chat destination are present.
func (c *Cfg) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
