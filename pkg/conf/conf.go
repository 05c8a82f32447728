// Package conf contains utility functions for loading and parsing configuration files.
package conf

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// APIConf describes how to reach the Fourtogenic API.
type APIConf struct {
	URL               string  `mapstructure:"url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Timeout returns the request timeout, falling back to 30s.
func (c APIConf) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}

	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StateConf describes where local state lives: the token store and the
// device id.
type StateConf struct {
	Dir string `mapstructure:"dir"`
}

// ClientConf is the full CLI configuration.
type ClientConf struct {
	API   APIConf   `mapstructure:"api"`
	State StateConf `mapstructure:"state"`
}

// Load opens and parses a configuration file.
func Load(file string, conf interface{}) error {
	_, err := os.Stat(file)
	if err != nil {
		return err
	}

	viper.SetConfigFile(file)
	viper.SetConfigType("toml")

	err = viper.ReadInConfig()
	if err != nil {
		return err
	}

	err = viper.GetViper().Unmarshal(conf)
	if err != nil {
		return err
	}

	return nil
}

// DefaultFile returns the default config file path under the user config
// dir.
func DefaultFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "fourto", "config.toml"), nil
}

// DefaultStateDir returns the default directory for the token store and
// device id.
func DefaultStateDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "fourto", "state"), nil
}
