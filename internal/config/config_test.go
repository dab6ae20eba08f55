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
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config file at a temp location so tests never read the user's real config.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	return p
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Projection != "EPSG:3857" || cfg.Render.TileSize != 256 {
		t.Fatalf("unexpected render defaults: %#v", cfg.Render)
	}
	if cfg.Render.MinArrowLengthPx != 5 || cfg.Render.MinTextSizePt != 4 {
		t.Fatalf("unexpected thresholds: %#v", cfg.Render)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Render.Projection = "EPSG:4326"
	cfg.Preview.IconDir = "/srv/icons"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Render.Projection != "EPSG:4326" || got.Preview.IconDir != "/srv/icons" {
		t.Fatalf("saved values not loaded back: %#v", got)
	}
}

func TestMalformedFileKeepsDefaults(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("render: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
	if cfg.Render.TileSize != 256 {
		t.Fatalf("defaults lost on malformed file: %#v", cfg.Render)
	}
}

func TestEnvOverridesRender(t *testing.T) {
	isolate(t)
	t.Setenv(EnvProjection, "epsg:4326")
	t.Setenv(EnvMinArrowLength, "8.5")
	t.Setenv(EnvTileSize, "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Projection != "EPSG:4326" {
		t.Fatalf("projection = %q", cfg.Render.Projection)
	}
	if cfg.Render.MinArrowLengthPx != 8.5 {
		t.Fatalf("min arrow length = %v", cfg.Render.MinArrowLengthPx)
	}
	if cfg.Render.TileSize != 256 {
		t.Fatalf("invalid tile size env should be ignored, got %d", cfg.Render.TileSize)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/mapstyle.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/mapstyle.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	var src AppConfig
	mergeInto(&dst, &src)
	if dst.Render.TileSize != 256 || dst.Preview.Width != 64 {
		t.Fatalf("zero values must not clobber defaults: %#v", dst)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	if env, ok := EnvOverrideFor("logging.level"); !ok || env != EnvLogLevel {
		t.Fatalf("expected logging.level override, got %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("render.unknown"); ok {
		t.Fatalf("unknown key should not report override")
	}
}
