package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
		Database: DatabaseConfig{
			DSN: "data/voice-arena.db",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "127.0.0.1:6379",
			Prefix:  "voice-arena",
		},
		Provider: ProviderConfig{
			BaseURL:      "https://api.302.ai",
			FetchTimeout: 15 * time.Second,
			CacheTTL:     10 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model: "tts-1",
		},
		Arena: ArenaConfig{
			Locale:   "zh",
			PageSize: 10,
		},
	}
}
