/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	applog "mapstyle/internal/log"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// IconSizer reports the natural pixel size of an icon image. ok is false while
// the size is unknown, in which case icons are drawn at scale 1.
type IconSizer interface {
	IconSize(url string) (w, h int, ok bool)
}

// FSIconSizer reads image headers from an fs.FS and caches the result.
// URLs are taken relative to the FS root; a leading "/" is ignored.
type FSIconSizer struct {
	FS fs.FS

	mu    sync.Mutex
	sizes map[string]image.Point
}

func NewFSIconSizer(fsys fs.FS) *FSIconSizer {
	return &FSIconSizer{FS: fsys, sizes: make(map[string]image.Point)}
}

func (s *FSIconSizer) IconSize(url string) (int, int, bool) {
	if s == nil || s.FS == nil || url == "" {
		return 0, 0, false
	}
	name := strings.TrimPrefix(url, "/")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sizes == nil {
		s.sizes = make(map[string]image.Point)
	}
	if p, ok := s.sizes[name]; ok {
		return p.X, p.Y, p.X > 0
	}
	p := image.Point{}
	if f, err := s.FS.Open(name); err == nil {
		cfg, _, derr := image.DecodeConfig(f)
		_ = f.Close()
		if derr == nil {
			p = image.Point{X: cfg.Width, Y: cfg.Height}
		} else {
			applog.WithComponent("styles").Warn("icon header not decodable", slog.String("icon", url), slog.Any("err", derr))
		}
	}
	// failures are cached as well; the icon set does not change while rendering
	s.sizes[name] = p
	return p.X, p.Y, p.X > 0
}

type sizerBox struct{ s IconSizer }

var defaultSizer atomic.Value // sizerBox

// SetIconSizer installs the sizer icon styles use to scale icons to a target size.
func SetIconSizer(s IconSizer) { defaultSizer.Store(sizerBox{s: s}) }

func iconSize(url string) (int, int, bool) {
	b, _ := defaultSizer.Load().(sizerBox)
	if b.s == nil {
		return 0, 0, false
	}
	return b.s.IconSize(url)
}
