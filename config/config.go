package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GHOST_GAME_DICTIONARY.
const EnvPrefix = "GHOST"

type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type GameConfig struct {
	Dictionary  string        `mapstructure:"dictionary"`
	EndRule     string        `mapstructure:"end_rule"`
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Namespace string `mapstructure:"namespace"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Output      string `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.dictionary", "ghost-dictionary.txt")
	v.SetDefault("game.end_rule", "literal")
	v.SetDefault("game.turn_timeout", "0s")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")
	v.SetDefault("metrics.namespace", "ghost")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("log.output", "stderr")
}

// LoadConfig reads path/.env and path/config.yaml when present. Both files are
// optional; defaults and GHOST_* environment variables fill the rest.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
