package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	FileName  = "pinball"
	EnvPrefix = "PINBALL"
)

// Settings is the runtime configuration of the binary. Physics tuning lives
// in the table file, not here.
type Settings struct {
	LogLevel     string
	WindowScale  float64
	WindowTitle  string
	Table        string
	WatchTable   bool
	Debug        bool
	AudioVolume  float64
	AudioEnabled bool
}

// Load sets defaults and reads an optional pinball.yaml from configDir.
// Environment variables prefixed with PINBALL_ override the file.
func Load(configDir string) error {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("window.scale", 1.0)
	viper.SetDefault("window.title", "Pinball")
	viper.SetDefault("table.name", "ruby")
	viper.SetDefault("table.watch", false)
	viper.SetDefault("debug", false)
	viper.SetDefault("audio.volume", 0.5)
	viper.SetDefault("audio.enabled", true)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Current snapshots the loaded values.
func Current() Settings {
	return Settings{
		LogLevel:     viper.GetString("log.level"),
		WindowScale:  viper.GetFloat64("window.scale"),
		WindowTitle:  viper.GetString("window.title"),
		Table:        viper.GetString("table.name"),
		WatchTable:   viper.GetBool("table.watch"),
		Debug:        viper.GetBool("debug"),
		AudioVolume:  viper.GetFloat64("audio.volume"),
		AudioEnabled: viper.GetBool("audio.enabled"),
	}
}

// Set overrides a key, for command-line flags.
func Set(key string, value any) {
	viper.Set(key, value)
}
