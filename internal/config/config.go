package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	HTTP HTTPConfig `koanf:"http"`
	Log  LogConfig  `koanf:"log"`
	Deck DeckConfig `koanf:"deck"`
	DB   DBConfig   `koanf:"db"`
	LLM  LLMConfig  `koanf:"llm"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// DeckConfig.Path overrides the embedded catalog when set.
type DeckConfig struct {
	Path string `koanf:"path"`
}

type DBConfig struct {
	URL  string `koanf:"url" validate:"required"`
	Name string `koanf:"name" validate:"required"`
}

type LLMConfig struct {
	Provider string        `koanf:"provider" validate:"oneof=openai gemini"`
	Model    string        `koanf:"model"`
	APIKey   string        `koanf:"api_key"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`
}

// envKeys maps recognised environment variables to config keys.
// EMERGENT_LLM_KEY is only used when LLM_API_KEY is unset.
var envKeys = map[string]string{
	"HTTP_ADDR":        "http.addr",
	"LOG_LEVEL":        "log.level",
	"DECK_PATH":        "deck.path",
	"MONGO_URL":        "db.url",
	"DB_NAME":          "db.name",
	"LLM_PROVIDER":     "llm.provider",
	"LLM_MODEL":        "llm.model",
	"LLM_API_KEY":      "llm.api_key",
	"EMERGENT_LLM_KEY": "llm.emergent_key",
	"LLM_BASE_URL":     "llm.base_url",
	"LLM_TIMEOUT":      "llm.timeout",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "http.addr",
	"log-level":    "log.level",
	"deck":         "deck.path",
	"db-url":       "db.url",
	"db-name":      "db.name",
	"llm-provider": "llm.provider",
	"llm-model":    "llm.model",
	"llm-base-url": "llm.base_url",
	"llm-timeout":  "llm.timeout",
}

// RegisterFlags adds the config flags to fs. Their defaults are the
// config defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("deck", "", "path to a TOML deck file (embedded deck when empty)")
	fs.String("db-url", "sqlite:tarot.db", "reading store URL (mongodb://, mongodb+srv://, sqlite:, file:)")
	fs.String("db-name", "tarot", "database name for MongoDB")
	fs.String("llm-provider", ProviderOpenAI, "LLM provider (openai, gemini)")
	fs.String("llm-model", "", "LLM model (provider default when empty)")
	fs.String("llm-base-url", "", "base URL for the OpenAI-compatible API")
	fs.Duration("llm-timeout", 30*time.Second, "LLM request timeout")
}

// Load merges, from lowest to highest priority: flag defaults, the YAML file
// named by --config, environment variables, and flags set explicitly.
func Load(fs *pflag.FlagSet) (Config, error) {
	if fs == nil {
		fs = pflag.NewFlagSet("tarotd", pflag.ContinueOnError)
		RegisterFlags(fs)
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	// Unchanged flags only fill keys that are still missing.
	flags := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	})
	if err := k.Load(flags, nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = k.String("llm.emergent_key")
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := parseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the slog level; Validate has already checked it.
func (c Config) LogLevel() slog.Level {
	level, _ := parseLogLevel(c.Log.Level)
	return level
}

func envValue(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envKeys[key], value
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

// LoadDotEnv exports the variables in path without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
