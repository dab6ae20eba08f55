/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapstyle/internal/config"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Logging.Level = "error"
	return cfg
}

func TestRunUsageErrors(t *testing.T) {
	var out bytes.Buffer
	if code := run(nil, testConfig(t), &out); code != 2 {
		t.Fatalf("no args: exit %d", code)
	}
	out.Reset()
	if code := run([]string{"frobnicate"}, testConfig(t), &out); code != 2 {
		t.Fatalf("unknown command: exit %d", code)
	}
	if !strings.Contains(out.String(), `unknown command "frobnicate"`) {
		t.Fatalf("missing message: %s", out.String())
	}
	out.Reset()
	if code := run([]string{"parse", "fill"}, testConfig(t), &out); code != 2 {
		t.Fatalf("short parse: exit %d", code)
	}
}

func TestRunParse(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"parse", "fill", "red:50"}, testConfig(t), &out); code != 0 {
		t.Fatalf("exit %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "def: red:50") || !strings.Contains(out.String(), "kind: fill") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	out.Reset()
	if code := run([]string{"parse", "raster", "x"}, testConfig(t), &out); code != 1 {
		t.Fatalf("unknown kind: exit %d", code)
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(good, []byte("styles:\n  roads: {kind: line, def: \"red:2px\"}\n"), 0o644)
	_ = os.WriteFile(bad, []byte("styles:\n  poi: {kind: symbol, def: \"star:red\"}\n"), 0o644)

	var out bytes.Buffer
	if code := run([]string{"check", good}, testConfig(t), &out); code != 0 {
		t.Fatalf("good catalog: exit %d: %s", code, out.String())
	}
	out.Reset()
	if code := run([]string{"check", bad}, testConfig(t), &out); code != 1 {
		t.Fatalf("bad catalog: exit %d", code)
	}
	if !strings.Contains(out.String(), `poi: unknown symbol "star"`) {
		t.Fatalf("problem not reported: %s", out.String())
	}
}

func TestRunSwatchAndLegend(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "swatch.svg")
	var out bytes.Buffer
	if code := run([]string{"swatch", "line", "blue:3px:dash", svg}, testConfig(t), &out); code != 0 {
		t.Fatalf("swatch: exit %d: %s", code, out.String())
	}
	if b, err := os.ReadFile(svg); err != nil || !strings.Contains(string(b), "<svg") {
		t.Fatalf("swatch not written: %v", err)
	}

	cat := filepath.Join(dir, "catalog.yaml")
	_ = os.WriteFile(cat, []byte("styles:\n  parks: {kind: fill, def: \"green:40\"}\nlayers:\n  pois:\n    marker: {kind: point, def: \"circle:red:8\"}\n"), 0o644)
	pdf := filepath.Join(dir, "legend.pdf")
	out.Reset()
	if code := run([]string{"legend", cat, pdf}, testConfig(t), &out); code != 0 {
		t.Fatalf("legend: exit %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "with 2 styles") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if b, err := os.ReadFile(pdf); err != nil || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("legend not a pdf: %v", err)
	}
}

func TestRunRenderFeature(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "f.geojson")
	_ = os.WriteFile(fp, []byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[1000,2000]},"properties":{"name":"Harbour"}}`), 0o644)
	var out bytes.Buffer
	if code := run([]string{"render", "text", "name:black:12", fp, "15"}, testConfig(t), &out); code != 0 {
		t.Fatalf("render: exit %d: %s", code, out.String())
	}
	s := out.String()
	if !strings.Contains(s, "projection EPSG:3857, zoom 15") || !strings.Contains(s, `text="Harbour" size=12pt`) {
		t.Fatalf("unexpected output: %s", s)
	}
	out.Reset()
	if code := run([]string{"render", "text", "name", fp, "high"}, testConfig(t), &out); code != 2 {
		t.Fatalf("bad zoom: exit %d", code)
	}
}

func TestRunPackUnpack(t *testing.T) {
	dir := t.TempDir()
	icons := filepath.Join(dir, "icons")
	_ = os.MkdirAll(icons, 0o755)
	_ = os.WriteFile(filepath.Join(icons, "pin.png"), []byte("not really a png"), 0o644)
	cat := filepath.Join(dir, "catalog.yaml")
	_ = os.WriteFile(cat, []byte("styles:\n  pin: {kind: icon, def: \"pin.png\"}\n"), 0o644)

	cfg := testConfig(t)
	cfg.Preview.IconDir = icons
	zipPath := filepath.Join(dir, "pack.zip")
	var out bytes.Buffer
	if code := run([]string{"pack", cat, zipPath}, cfg, &out); code != 0 {
		t.Fatalf("pack: exit %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "with 1 icons") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	out.Reset()
	dest := filepath.Join(dir, "installed")
	if code := run([]string{"unpack", zipPath, dest}, cfg, &out); code != 0 {
		t.Fatalf("unpack: exit %d: %s", code, out.String())
	}
	if _, err := os.Stat(filepath.Join(dest, "icons", "pin.png")); err != nil {
		t.Fatalf("icon not installed: %v", err)
	}
}

func TestRunRenderUsesConfiguredThresholds(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "f.geojson")
	_ = os.WriteFile(fp, []byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"name":"Quay"}}`), 0o644)
	args := []string{"render", "text", "name:black:12m", fp, "17"}

	var out bytes.Buffer
	if code := run(args, testConfig(t), &out); code != 0 || !strings.Contains(out.String(), `text="Quay"`) {
		t.Fatalf("default threshold should draw the label: exit %d: %s", code, out.String())
	}
	cfg := testConfig(t)
	cfg.Render.MinTextSizePt = 20
	out.Reset()
	if code := run(args, cfg, &out); code != 0 || !strings.Contains(out.String(), "nothing drawn") {
		t.Fatalf("configured min text size ignored: exit %d: %s", code, out.String())
	}
}
