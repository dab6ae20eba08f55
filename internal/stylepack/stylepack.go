/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack bundles a style catalog and the icons its styles reference
// into a single zip, and installs such a bundle into a directory.
//
// Layout inside the zip:
//
//	stylepack.manifest.txt
//	catalog.yaml
//	icons/<icon url>
package stylepack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mapstyle/internal/catalog"
	applog "mapstyle/internal/log"
	"mapstyle/internal/styles"
)

const (
	ManifestName = "stylepack.manifest.txt"
	CatalogName  = "catalog.yaml"
	IconsDir     = "icons"
)

// IconURLs returns the icon URLs used by the catalog's styles, sorted and unique.
// Entries that do not parse are ignored.
func IconURLs(c *catalog.Catalog) []string {
	seen := map[string]bool{}
	visit := func(m map[string]catalog.Entry) {
		for _, e := range m {
			el, err := catalog.Element(e, catalog.BuildOptions{})
			if err != nil {
				continue
			}
			collectIcons(el, seen)
		}
	}
	visit(c.Styles)
	for _, m := range c.Layers {
		visit(m)
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func collectIcons(el styles.Element, seen map[string]bool) {
	switch s := el.(type) {
	case *styles.IconStyle:
		if s.URL != "" {
			seen[s.URL] = true
		}
	case *styles.LookupStyle:
		if s.Default != nil {
			collectIcons(s.Default, seen)
		}
		for _, inner := range s.Lookup {
			collectIcons(inner, seen)
		}
	case *styles.Style:
		for _, inner := range s.Elements() {
			collectIcons(inner, seen)
		}
	}
}

// Export writes catalogPath and every referenced icon found below iconDir into destZipPath.
// Icons missing from iconDir are logged and left out. It returns the number of icons added.
func Export(catalogPath, iconDir, destZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "export").With(slog.String("catalog", catalogPath))
	if strings.TrimSpace(catalogPath) == "" {
		return 0, errors.New("catalogPath is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return 0, errors.New("destZipPath is required")
	}
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	c, err := catalog.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return 0, fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return 0, fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	urls := IconURLs(c)
	manifest := fmt.Sprintf("mapstyle Style Pack\nCreated: %s\nCatalog: %s\nStyles: %d\nIcons referenced: %d\n",
		time.Now().Format(time.RFC3339), filepath.Base(catalogPath), len(c.Names()), len(urls))
	if err := writeEntry(zw, ManifestName, strings.NewReader(manifest)); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}
	if err := writeEntry(zw, CatalogName, strings.NewReader(string(raw))); err != nil {
		return 0, fmt.Errorf("write catalog: %w", err)
	}

	added := 0
	for _, u := range urls {
		name, ok := cleanRel(u)
		if !ok || iconDir == "" {
			l.Warn("icon not packed", slog.String("icon", u))
			continue
		}
		f, err := os.Open(filepath.Join(iconDir, filepath.FromSlash(name)))
		if err != nil {
			l.Warn("icon not packed", slog.String("icon", u), slog.Any("err", err))
			continue
		}
		err = writeEntry(zw, path.Join(IconsDir, name), f)
		_ = f.Close()
		if err != nil {
			return added, fmt.Errorf("add icon %s: %w", u, err)
		}
		added++
	}
	if err := zw.Close(); err != nil {
		return added, fmt.Errorf("finish zip: %w", err)
	}
	l.Info("style pack exported", slog.Int("icons", added), slog.String("zip", destZipPath))
	return added, nil
}

func writeEntry(zw *zip.Writer, name string, r io.Reader) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

// cleanRel turns an icon URL or zip entry name into a slash separated path
// that stays inside its root. URLs with a scheme are rejected.
func cleanRel(name string) (string, bool) {
	if strings.Contains(name, "://") {
		return "", false
	}
	p := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if p == "/" || strings.Contains(name, "..") {
		return "", false
	}
	return strings.TrimPrefix(p, "/"), true
}

// Install extracts a pack below destDir: the catalog to destDir/catalog.yaml and
// icons to destDir/icons. Existing files are not overwritten. Entries escaping
// destDir are ignored. Returns the count of files installed.
func Install(packZipPath, destDir string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "install").With(slog.String("dest", destDir))
	if strings.TrimSpace(destDir) == "" {
		return 0, errors.New("destDir is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure dest dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		if f.Name == ManifestName || f.FileInfo().IsDir() {
			continue
		}
		rel, ok := cleanRel(f.Name)
		if !ok || (rel != CatalogName && !strings.HasPrefix(rel, IconsDir+"/")) {
			l.Warn("skip foreign entry", slog.String("entry", f.Name))
			continue
		}
		if rel == CatalogName {
			if err := checkCatalog(f); err != nil {
				return installed, err
			}
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing file", slog.String("path", target))
			continue
		}
		if err := extract(f, target); err != nil {
			return installed, err
		}
		installed++
	}
	l.Info("style pack installed", slog.Int("files", installed))
	return installed, nil
}

func checkCatalog(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	if _, err := catalog.Parse(data); err != nil {
		return fmt.Errorf("pack catalog: %w", err)
	}
	return nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
