package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults for the suggestion aggregator, overridable per request up to the
// configured maximum.
const (
	DefaultSuggestionLimit = 10
	DefaultMaxSuggestions  = 50
)

type Config struct {
	Port             int    `yaml:"port"`
	DatabaseURL      string `yaml:"database_url"`
	DatabaseType     string `yaml:"database_type"`
	OrganizerKeySalt string `yaml:"organizer_key_salt"`

	SuggestionLimit int `yaml:"suggestion_limit"`
	MaxSuggestions  int `yaml:"max_suggestions"`

	Google GoogleConfig `yaml:"google"`
}

// GoogleConfig enables calendar publishing of finalized events when both
// members are set.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	CalendarID      string `yaml:"calendar_id"`
}

// ParseFlags resolves configuration from, in increasing precedence:
// an optional YAML file (-c), environment variables, then flags.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configPath string

	fs := flag.NewFlagSet("slotpick", flag.ContinueOnError)

	fs.StringVar(&configPath, "c", "", "Path to YAML config file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OrganizerKeySalt, "organizer-salt", "", "Organizer key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var fileCfg Config
	if configPath != "" {
		var err error
		fileCfg, err = loadFile(configPath)
		if err != nil {
			return Config{}, err
		}
	}

	// Fall back to environment variables, then the config file.
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if fileCfg.Port != 0 {
			cfg.Port = fileCfg.Port
		} else {
			cfg.Port = 3414 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fileCfg.DatabaseURL
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = fileCfg.DatabaseType
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}

	// Secrets - MUST be provided
	if cfg.OrganizerKeySalt == "" {
		cfg.OrganizerKeySalt = os.Getenv("ORGANIZER_KEY_SALT")
	}
	if cfg.OrganizerKeySalt == "" {
		cfg.OrganizerKeySalt = fileCfg.OrganizerKeySalt
	}
	if cfg.OrganizerKeySalt == "" {
		return Config{}, errors.New("ORGANIZER_KEY_SALT required")
	}

	cfg.SuggestionLimit = fileCfg.SuggestionLimit
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = DefaultSuggestionLimit
	}
	cfg.MaxSuggestions = fileCfg.MaxSuggestions
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultMaxSuggestions
	}

	cfg.Google = fileCfg.Google
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		cfg.Google.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_TOKEN_FILE"); v != "" {
		cfg.Google.TokenFile = v
	}
	if v := os.Getenv("GOOGLE_CALENDAR_ID"); v != "" {
		cfg.Google.CalendarID = v
	}

	return cfg, nil
}

func loadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return c, nil
}
