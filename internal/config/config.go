// Package config loads sqlcrud settings from config files, .env files and
// the environment.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	fileName  = ".sqlcrud"
	envPrefix = "SQLCRUD"
)

// Config holds the application configuration
type Config struct {
	Database         database.Config `mapstructure:"database"`
	Debug            bool            `mapstructure:"debug"`
	MinServerVersion string          `mapstructure:"min_server_version"`
}

// Load loads configuration from AppFs and the environment
func Load() (*Config, error) {
	return LoadFrom(AppFs)
}

// LoadFrom loads configuration from fs and the environment.
//
// Environment variables (SQLCRUD_DATABASE_URL and friends) override the
// config file, which overrides defaults. DATABASE_URL is honoured when
// SQLCRUD_DATABASE_URL is unset. Variables from .env and .env.local are
// applied to the environment first.
func LoadFrom(fs afero.Fs) (*Config, error) {
	if err := loadDotEnv(fs); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlcrud"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.provider", "postgresql")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_time", 300)
	v.SetDefault("database.connect_timeout", 10)
	v.SetDefault("database.returning_column", "")
	v.SetDefault("debug", false)
	v.SetDefault("min_server_version", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if url := os.Getenv("DATABASE_URL"); url != "" && os.Getenv(envPrefix+"_DATABASE_URL") == "" {
		cfg.Database.URL = url
	}

	return cfg, nil
}

// loadDotEnv applies .env without overriding the process environment,
// then .env.local with override.
func loadDotEnv(fs afero.Fs) error {
	base, err := readEnvFile(fs, ".env")
	if err != nil {
		return err
	}
	for k, v := range base {
		if _, set := os.LookupEnv(k); !set {
			os.Setenv(k, v)
		}
	}

	local, err := readEnvFile(fs, ".env.local")
	if err != nil {
		return err
	}
	for k, v := range local {
		os.Setenv(k, v)
	}
	return nil
}

func readEnvFile(fs afero.Fs, name string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Parse(bytes.NewReader(data))
}

// Path returns the file Save writes to
func Path() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sqlcrud", fileName+".yaml"), nil
}

// Save saves configuration to the user config file
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(AppFs, path, cfg)
}

// SaveTo writes cfg as YAML to path on fs
func SaveTo(fs afero.Fs, path string, cfg *Config) error {
	v := viper.New()
	v.SetFs(fs)
	v.Set("database.provider", cfg.Database.Provider)
	v.Set("database.url", cfg.Database.URL)
	v.Set("database.max_connections", cfg.Database.MaxConnections)
	v.Set("database.max_idle_time", cfg.Database.MaxIdleTime)
	v.Set("database.connect_timeout", cfg.Database.ConnectTimeout)
	v.Set("database.returning_column", cfg.Database.ReturningColumn)
	v.Set("debug", cfg.Debug)
	v.Set("min_server_version", cfg.MinServerVersion)

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}
