package listing

import (
	"errors"
	"fmt"
	"goldenbough/lib/bestseller"
	"goldenbough/lib/configutil"
	"log/slog"
	"os"
	"strings"
)

const (
	UpstreamAladin = "aladin"
	UpstreamNyt    = "nyt"

	BackendFilesystem = "fs"
	BackendSqlite     = "sqlite"

	DefaultRequestsPerDay = 5000

	EnvTTBKey = "GOLDENBOUGH_TTB_KEY"
	EnvNytKey = "GOLDENBOUGH_NYT_KEY"
)

type CacheConfig struct {
	Backend    string `json:"backend"`
	Dir        string `json:"dir"`
	SqlitePath string `json:"sqlite_path"`
}

type Config struct {
	// Aladin TTB key.
	SecretKey string `json:"secret_key"`
	// New York Times books api key.
	EngSecretKey  string      `json:"eng_secret_key"`
	RequestPerDay int         `json:"request_per_day"`
	Upstream      string      `json:"upstream"`
	Cache         CacheConfig `json:"cache"`
	Lang          string      `json:"lang"`
}

func (c Config) withDefaults() Config {
	if c.RequestPerDay == 0 {
		c.RequestPerDay = DefaultRequestsPerDay
	}
	if c.Upstream == "" {
		c.Upstream = UpstreamAladin
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFilesystem
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache"
	}
	if c.Cache.SqlitePath == "" {
		c.Cache.SqlitePath = "cache.db"
	}
	if c.Lang == "" {
		c.Lang = "ko"
	}
	return c
}

func (c Config) withEnv() Config {
	if key := os.Getenv(EnvTTBKey); key != "" {
		c.SecretKey = key
	}
	if key := os.Getenv(EnvNytKey); key != "" {
		c.EngSecretKey = key
	}
	return c
}

// Validate checks the fields that do not depend on which upstream is used,
// api keys are checked by the clients themselves.
func (c Config) Validate() error {
	switch c.Upstream {
	case UpstreamAladin, UpstreamNyt:
	default:
		return &bestseller.ConfigurationError{
			Field:  "upstream",
			Reason: fmt.Sprintf("unknown upstream %q", c.Upstream),
		}
	}
	switch c.Cache.Backend {
	case BackendFilesystem, BackendSqlite:
	default:
		return &bestseller.ConfigurationError{
			Field:  "cache.backend",
			Reason: fmt.Sprintf("unknown backend %q", c.Cache.Backend),
		}
	}
	if c.RequestPerDay < 0 {
		return &bestseller.ConfigurationError{
			Field:  "request_per_day",
			Reason: fmt.Sprintf("must not be negative, got %d", c.RequestPerDay),
		}
	}
	return nil
}

// LoadConfig searches config.json5 (and its local override) upwards from
// dir. A missing file is not an error, the defaults and environment
// overrides still apply.
func LoadConfig(dir string) (Config, error) {
	config, path, err := configutil.ReadRecursively[Config](dir, "config.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config.json5 found, using defaults")
	} else if err != nil {
		return Config{}, err
	} else {
		slog.Debug("read config", "path", path)
	}

	config = config.withEnv().withDefaults()
	config.Upstream = strings.ToLower(config.Upstream)
	return config, config.Validate()
}
