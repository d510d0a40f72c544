// Package config loads fontdrop's optional configuration file.
//
// The file lives at $XDG_CONFIG_HOME/fontdrop/config.toml. Every field
// has a default, so a missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/fontdrop/pkg/errors"
	"github.com/arthur-debert/fontdrop/pkg/logging"
)

// EnvSystemFontDir overrides the system font root, mirroring the
// config file's system_font_dir field. Takes priority over the file.
const EnvSystemFontDir = "FONTDROP_SYSTEM_FONT_DIR"

// Default values used when no config file is present
const (
	DefaultSystemFontDir = "/usr/share/fonts"
	DefaultCacheTool     = "fc-cache"
	DefaultElevateTool   = "sudo"
)

// Config holds the settings fontdrop reads from config.toml
type Config struct {
	// SystemFontDir is the font root used for system-mode installs
	SystemFontDir string `toml:"system_font_dir"`

	// CacheTool is the font cache rebuild command
	CacheTool string `toml:"cache_tool"`

	// CacheArgs are passed to the cache tool; defaults to a force rebuild
	CacheArgs []string `toml:"cache_args"`

	// ElevateTool runs the privilege-elevated retry for system installs
	ElevateTool string `toml:"elevate_tool"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		SystemFontDir: DefaultSystemFontDir,
		CacheTool:     DefaultCacheTool,
		CacheArgs:     []string{"-f"},
		ElevateTool:   DefaultElevateTool,
	}
}

// Path returns the location of the config file
func Path() string {
	return filepath.Join(xdg.ConfigHome, "fontdrop", "config.toml")
}

// Load reads the config file if it exists and merges it over the
// defaults. The FONTDROP_SYSTEM_FONT_DIR environment variable wins
// over both.
func Load() (Config, error) {
	logger := logging.GetLogger("config")
	cfg := Default()

	path := Path()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug().Str("path", path).Msg("No config file, using defaults")
	case err != nil:
		return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config file %s", path)
	default:
		var fileCfg Config
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
		cfg = merge(cfg, fileCfg)
		logger.Debug().Str("path", path).Msg("Config file loaded")
	}

	if dir := os.Getenv(EnvSystemFontDir); dir != "" {
		cfg.SystemFontDir = dir
		logger.Debug().Str("dir", dir).Msg("System font dir overridden from environment")
	}

	return cfg, nil
}

// merge overlays non-zero fields from overlay onto base
func merge(base, overlay Config) Config {
	if overlay.SystemFontDir != "" {
		base.SystemFontDir = overlay.SystemFontDir
	}
	if overlay.CacheTool != "" {
		base.CacheTool = overlay.CacheTool
	}
	if len(overlay.CacheArgs) > 0 {
		base.CacheArgs = overlay.CacheArgs
	}
	if overlay.ElevateTool != "" {
		base.ElevateTool = overlay.ElevateTool
	}
	return base
}
