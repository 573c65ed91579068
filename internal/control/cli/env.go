package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ja-he/workbench/internal/config"
)

// workbenchHome returns the directory holding the configuration and the
// session, which is WORKBENCH_HOME if set.
func workbenchHome() string {
	if home := os.Getenv("WORKBENCH_HOME"); home != "" {
		return strings.TrimRight(home, "/")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "workbench")
}

// loadConfig reads config.yaml from home to augment the defaults for the
// given theme. A missing or broken configuration file leaves the defaults.
func loadConfig(home string, theme config.ColorschemeType, logger zerolog.Logger) config.Config {
	filename := filepath.Join(home, "config.yaml")
	yamlData, err := os.ReadFile(filename)
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("can't read config file, using defaults")
		yamlData = make([]byte, 0)
	}
	configData, err := config.ParseConfigAugmentDefaults(theme, yamlData)
	if err != nil {
		logger.Error().Err(err).Str("file", filename).Msg("can't use config file, using defaults")
	}
	return configData
}

func themeFromFlag(theme string) config.ColorschemeType {
	switch theme {
	case "light":
		return config.Light
	default:
		return config.Dark
	}
}
