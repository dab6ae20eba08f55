/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapstyle/internal/catalog"
)

const packCatalog = `
styles:
  harbour: {kind: icon, def: "marine/harbour.png:16:32"}
  parks: {kind: fill, def: "green:40"}
layers:
  pois:
    shop: {kind: point, def: "{\"lookupProp\": \"type\", \"defaultStyle\": \"shop.png\", \"lookup\": {\"bakery\": \"bakery.png\", \"fuel\": \"circle:red\"}}"}
    ghost: {kind: icon, def: "missing.png"}
`

func writeFixture(t *testing.T) (catalogPath, iconDir string) {
	t.Helper()
	dir := t.TempDir()
	catalogPath = filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(packCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	iconDir = filepath.Join(dir, "icons")
	for _, name := range []string{"marine/harbour.png", "shop.png", "bakery.png"} {
		p := filepath.Join(iconDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("png:"+name), 0o644); err != nil {
			t.Fatalf("write icon: %v", err)
		}
	}
	return catalogPath, iconDir
}

func TestIconURLs(t *testing.T) {
	c, err := catalog.Parse([]byte(packCatalog))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := strings.Join(IconURLs(c), ",")
	if got != "bakery.png,marine/harbour.png,missing.png,shop.png" {
		t.Fatalf("IconURLs() = %s", got)
	}
}

func TestExportAndInstall(t *testing.T) {
	catalogPath, iconDir := writeFixture(t)
	zipPath := filepath.Join(t.TempDir(), "out", "pack.zip")
	added, err := Export(catalogPath, iconDir, zipPath)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected 3 icons packed, got %d", added)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	_ = r.Close()
	for _, want := range []string{ManifestName, CatalogName, "icons/marine/harbour.png", "icons/shop.png", "icons/bakery.png"} {
		if !names[want] {
			t.Fatalf("zip misses %s: %v", want, names)
		}
	}

	dest := t.TempDir()
	installed, err := Install(zipPath, dest)
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if installed != 4 {
		t.Fatalf("expected catalog and 3 icons installed, got %d", installed)
	}
	c, err := catalog.Load(filepath.Join(dest, CatalogName))
	if err != nil {
		t.Fatalf("installed catalog: %v", err)
	}
	if _, ok := c.Resolve("pois", "shop"); !ok {
		t.Fatalf("installed catalog lost layer style")
	}
	if b, _ := os.ReadFile(filepath.Join(dest, "icons", "marine", "harbour.png")); string(b) != "png:marine/harbour.png" {
		t.Fatalf("icon content = %q", b)
	}

	// a second install skips everything that exists
	again, err := Install(zipPath, dest)
	if err != nil || again != 0 {
		t.Fatalf("reinstall: %d %v", again, err)
	}
}

func TestExportArgumentErrors(t *testing.T) {
	if _, err := Export("", "", ""); err == nil {
		t.Fatalf("expected error on empty args")
	}
	if _, err := Export(filepath.Join(t.TempDir(), "nope.yaml"), "", filepath.Join(t.TempDir(), "p.zip")); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

func TestInstallIgnoresForeignAndEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	zpath := filepath.Join(dir, "pack.zip")
	f, err := os.Create(zpath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"../evil.txt":         "nope",
		"icons/../../x.png":   "nope",
		"notes/readme.txt":    "foreign",
		"icons/ok.png":        "ok",
		"icons/sub/other.png": "ok",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		_, _ = w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	_ = f.Close()

	dest := filepath.Join(dir, "dest")
	installed, err := Install(zpath, dest)
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if installed != 2 {
		t.Fatalf("expected 2 icons installed, got %d", installed)
	}
	for _, p := range []string{filepath.Join(dir, "evil.txt"), filepath.Join(dir, "x.png"), filepath.Join(dest, "notes")} {
		if _, err := os.Stat(p); err == nil {
			t.Fatalf("%s should not exist", p)
		}
	}
}

func TestInstallRejectsBrokenCatalog(t *testing.T) {
	dir := t.TempDir()
	zpath := filepath.Join(dir, "pack.zip")
	f, _ := os.Create(zpath)
	zw := zip.NewWriter(f)
	w, _ := zw.Create(CatalogName)
	_, _ = w.Write([]byte("styles: [broken"))
	_ = zw.Close()
	_ = f.Close()
	if _, err := Install(zpath, filepath.Join(dir, "dest")); err == nil {
		t.Fatalf("expected error for malformed pack catalog")
	}
}
