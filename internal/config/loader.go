package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "sortedarray"
	configType = "yaml"
	envPrefix  = "SORTEDARRAY"
)

// LoadConfig resolves the sortedarray settings. Precedence, highest first:
// SORTEDARRAY_* environment variables (SORTEDARRAY_OUTPUT_FORMAT for
// output.format), the config file, then defaults. An explicit configPath must
// exist; otherwise sortedarray.yaml is looked up in searchDirs and may be
// absent.
func LoadConfig(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)

		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	applyDefaults(v)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// searchDirs lists the working directory, ./config and the user's
// ~/.config/sortedarray when a home directory is known.
func searchDirs() []string {
	dirs := []string{".", "./config"}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", configName))
	}

	return dirs
}
