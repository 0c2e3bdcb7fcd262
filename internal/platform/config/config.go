package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Provider ProviderConfig `yaml:"provider"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Arena    ArenaConfig    `yaml:"arena"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	// DSN sqlite数据库文件路径
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// ProviderConfig 托管TTS供应商接口配置
type ProviderConfig struct {
	BaseURL      string        `yaml:"url"`
	APIKey       string        `yaml:"api_key"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"url,omitempty"`
	Model   string `yaml:"model"`
}

// ArenaConfig 语音竞技场业务配置
type ArenaConfig struct {
	// Locale 界面语言，zh时语音目录只保留中文语种分组
	Locale   string `yaml:"locale"`
	PageSize int    `yaml:"page_size"`
}
