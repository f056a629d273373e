package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEnvFile = "config/config.env"
	DefaultPort    = 8000
)

// Storage backends accepted by STORAGE.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite3"
	StorageMongo    = "mongo"
	StorageBadger   = "badger"
)

type Config struct {
	Port         int
	Storage      string
	DatabaseURL  string
	DatabaseName string
	// CompatMode keeps the loginUser lookup without an email filter and the
	// ignored editPost userid argument.
	CompatMode bool
	JWTSecret  string
	LogLevel   string
	LogFormat  string
}

// LoadEnv copies the variables of an env file into the process environment.
// Variables already set win.
func LoadEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	return godotenv.Load(path)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("storage", StorageMemory)
	v.SetDefault("database_url", "")
	v.SetDefault("database_name", "blog")
	v.SetDefault("compat_mode", true)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.AutomaticEnv()
	return v
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:         v.GetInt("port"),
		Storage:      v.GetString("storage"),
		DatabaseURL:  v.GetString("database_url"),
		DatabaseName: v.GetString("database_name"),
		CompatMode:   v.GetBool("compat_mode"),
		JWTSecret:    v.GetString("jwt_secret"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.Storage {
	case StorageMemory, StorageBadger:
	case StoragePostgres, StorageSQLite, StorageMongo:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s storage", c.Storage)
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
