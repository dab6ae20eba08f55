/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Font resolution and label measurement for map text.
// Everything is measured in screen pixels; sizes are requested in points
// and converted with the provider's DPI (96 when unset, the CSS convention).

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const defaultDPI = 96

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name, e.g. "sans-serif"
	SizePt float64
	Weight int // 100..900
	Italic bool
}

// PixelSize converts the point size to pixels at dpi.
func (f FontSpec) PixelSize(dpi float64) float64 {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return f.SizePt * dpi / 72
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineHeight is ascent+descent+gap.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Provider maps FontSpec to a concrete font.Face and its metrics at the requested size.
// A provider may hand back a face of a different nominal size (basicfont is fixed at
// 13px); Measure rescales advances by the ratio between the reported metrics and
// the face's own metrics.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 scaled to the requested size.
// It is deterministic and needs no font files.
type BasicProvider struct {
	DPI float64
}

func (p BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	ratio := 1.0
	if spec.SizePt > 0 {
		ratio = spec.PixelSize(p.DPI) / fixedToFloat(m.Height)
	}
	return f, Metrics{
		Ascent:  fixedToFloat(m.Ascent) * ratio,
		Descent: fixedToFloat(m.Descent) * ratio,
		LineGap: fixedToFloat(m.Height-m.Ascent-m.Descent) * ratio,
	}
}

// Box is the measured extent of a (possibly multi-line) label.
type Box struct {
	Width, Height float64
	Lines         int
	Metrics       Metrics
}

// Measure measures text laid out line by line ("\n" separated) without wrapping.
func Measure(provider Provider, spec FontSpec, text string) Box {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	ratio := 1.0
	if h := fixedToFloat(face.Metrics().Height); h > 0 && met.LineHeight() > 0 {
		ratio = met.LineHeight() / h
	}
	d := &font.Drawer{Face: face}
	lines := strings.Split(text, "\n")
	box := Box{Lines: len(lines), Metrics: met}
	for _, ln := range lines {
		if w := fixedToFloat(d.MeasureString(ln)) * ratio; w > box.Width {
			box.Width = w
		}
	}
	box.Height = float64(len(lines))*(met.Ascent+met.Descent) + float64(len(lines)-1)*met.LineGap
	return box
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
