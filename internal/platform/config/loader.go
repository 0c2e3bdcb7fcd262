package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"voice-arena-go/internal/platform/errors"
)

// 配置文件查找顺序
var configCandidates = []string{".config.yaml", "config.yaml"}

// Loader 负责加载并校验配置文件
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load 读取配置文件，应用环境变量覆盖并校验。文件不存在时返回默认配置。
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			// 仅在 .env 不存在时提示，不中断流程
			fmt.Println("未找到 .env 文件，使用系统环境变量")
		}
	}

	cfg := DefaultConfig()

	path := l.path
	if path == "" {
		for _, candidate := range configCandidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.KindConfig, "loader.read", "读取配置文件失败", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "loader.parse", "解析配置文件失败", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

// applyEnvOverrides 环境变量覆盖敏感配置项
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_API_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

// Validate 校验配置合法性
func (l *Loader) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.KindConfig, "loader.validate", "配置为空")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("非法端口号: %d", cfg.Server.Port))
	}
	if cfg.Database.DSN == "" {
		return errors.New(errors.KindConfig, "loader.validate", "数据库DSN不能为空")
	}
	if cfg.Arena.PageSize <= 0 {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("分页大小必须为正数: %d", cfg.Arena.PageSize))
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return errors.New(errors.KindConfig, "loader.validate", "启用redis时地址不能为空")
	}
	return nil
}
