/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied after the file.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type RenderConfig struct {
	// Projection is the display projection of feature geometries: EPSG:3857 or EPSG:4326.
	Projection       string  `yaml:"projection"`
	TileSize         int     `yaml:"tile_size"`
	MinArrowLengthPx float64 `yaml:"min_arrow_length_px"`
	MinTextSizePt    float64 `yaml:"min_text_size_pt"`
}

type PreviewConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FontFile string `yaml:"font_file"` // optional TTF/OTF used to measure labels
	IconDir  string `yaml:"icon_dir"`  // root that icon URLs are resolved against
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Render        RenderConfig  `yaml:"render"`
	Preview       PreviewConfig `yaml:"preview"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Render:        RenderConfig{Projection: "EPSG:3857", TileSize: 256, MinArrowLengthPx: 5, MinTextSizePt: 4},
		Preview:       PreviewConfig{Width: 64, Height: 64},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile     = "MAPSTYLE_CONFIG"
	EnvProjection     = "MAPSTYLE_PROJECTION"
	EnvTileSize       = "MAPSTYLE_TILE_SIZE"
	EnvMinArrowLength = "MAPSTYLE_MIN_ARROW_PX"
	EnvMinTextSize    = "MAPSTYLE_MIN_TEXT_PT"
	EnvIconDir        = "MAPSTYLE_ICON_DIR"
	EnvFontFile       = "MAPSTYLE_FONT_FILE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "MAPSTYLE_LOG_LEVEL"
	EnvLogFormat = "MAPSTYLE_LOG_FORMAT"
	EnvLogSource = "MAPSTYLE_LOG_SOURCE"
	EnvLogFile   = "MAPSTYLE_LOG_FILE"
)

// ConfigPath returns the per-user config file path. MAPSTYLE_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "mapstyle")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "mapstyle")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "mapstyle")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges environment overrides.
// A missing or unreadable file is not an error; a malformed one is reported but defaults are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var perr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			perr = err
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, perr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.ToUpper(strings.TrimSpace(src.Render.Projection)); v != "" {
		dst.Render.Projection = v
	}
	if src.Render.TileSize > 0 {
		dst.Render.TileSize = src.Render.TileSize
	}
	if src.Render.MinArrowLengthPx > 0 {
		dst.Render.MinArrowLengthPx = src.Render.MinArrowLengthPx
	}
	if src.Render.MinTextSizePt > 0 {
		dst.Render.MinTextSizePt = src.Render.MinTextSizePt
	}
	if src.Preview.Width > 0 {
		dst.Preview.Width = src.Preview.Width
	}
	if src.Preview.Height > 0 {
		dst.Preview.Height = src.Preview.Height
	}
	if v := strings.TrimSpace(src.Preview.FontFile); v != "" {
		dst.Preview.FontFile = v
	}
	if v := strings.TrimSpace(src.Preview.IconDir); v != "" {
		dst.Preview.IconDir = v
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvProjection)); v != "" {
		cfg.Render.Projection = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTileSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.TileSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvMinArrowLength)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Render.MinArrowLengthPx = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvMinTextSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Render.MinTextSizePt = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvIconDir)); v != "" {
		cfg.Preview.IconDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Preview.FontFile = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

var envKeys = map[string]string{
	"render.projection":          EnvProjection,
	"render.tile_size":           EnvTileSize,
	"render.min_arrow_length_px": EnvMinArrowLength,
	"render.min_text_size_pt":    EnvMinTextSize,
	"preview.icon_dir":           EnvIconDir,
	"preview.font_file":          EnvFontFile,
	"logging.level":              EnvLogLevel,
	"logging.format":             EnvLogFormat,
	"logging.source":             EnvLogSource,
	"logging.file":               EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
