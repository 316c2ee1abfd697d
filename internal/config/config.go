package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TWEETSHOT_ADDR.
const EnvPrefix = "TWEETSHOT"

type Config struct {
	Addr          string        `mapstructure:"ADDR"`
	LogEnv        string        `mapstructure:"LOG_ENV"`
	OutDir        string        `mapstructure:"OUT_DIR"`
	Profile       string        `mapstructure:"PROFILE"`
	AvatarTimeout time.Duration `mapstructure:"AVATAR_TIMEOUT"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
}

// Load reads defaults, an optional .env file and the environment.
// file overrides the .env lookup when set.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v, file)
	if err := readConfiguration(v, file != ""); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.AvatarTimeout <= 0 {
		cfg.AvatarTimeout = 10 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("LOG_ENV", "dev")
	v.SetDefault("OUT_DIR", ".")
	v.SetDefault("PROFILE", "screen")
	v.SetDefault("AVATAR_TIMEOUT", "10s")
	v.SetDefault("SESSION_TTL", "2h")
}

func configureViper(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// readConfiguration tolerates a missing .env unless the file was named
// explicitly.
func readConfiguration(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("config file error: %w", err)
}
