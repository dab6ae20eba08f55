/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic.
// Faces are cached per size because opentype.NewFace is comparatively expensive
// and labels at a stable zoom keep asking for the same size.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[fontKey]*opentype.Font
	faces map[faceKey]font.Face
}

type fontKey struct {
	family string
	weight int
	italic bool
}

type faceKey struct {
	fontKey
	px float64
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]*opentype.Font), faces: make(map[faceKey]font.Face)}
}

// LoadFile loads a TTF/OTF file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadFile(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Load(family, weight, italic, data)
}

// Load parses font bytes into the library.
func (fl *FontLibrary) Load(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: strings.ToLower(family), weight: weight, italic: italic}] = f
	return nil
}

func (fl *FontLibrary) face(spec FontSpec, px float64) font.Face {
	if fl == nil {
		return nil
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	key := fontKey{family: strings.ToLower(spec.Family), weight: spec.Weight, italic: spec.Italic}
	f, ok := fl.fonts[key]
	if !ok {
		for k, cand := range fl.fonts {
			if k.family == key.family {
				f, key = cand, k
				break
			}
		}
	}
	if f == nil {
		return nil
	}
	fk := faceKey{fontKey: key, px: px}
	if fc, ok := fl.faces[fk]; ok {
		return fc
	}
	fc, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil
	}
	if fl.faces == nil {
		fl.faces = make(map[faceKey]font.Face)
	}
	fl.faces[fk] = fc
	return fc
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 10
	}
	if fc := p.Lib.face(spec, spec.PixelSize(p.DPI)); fc != nil {
		m := fc.Metrics()
		return fc, Metrics{
			Ascent:  fixedToFloat(m.Ascent),
			Descent: fixedToFloat(m.Descent),
			LineGap: fixedToFloat(m.Height - m.Ascent - m.Descent),
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{DPI: p.DPI}
	}
	return fb.Resolve(spec)
}
