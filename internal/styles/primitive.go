/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"image/color"

	"mapstyle/internal/textlayout"

	"github.com/paulmach/orb"
)

// Fill paints an area.
type Fill struct {
	Color color.NRGBA
}

// Stroke outlines a geometry. Dash lengths are in pixels.
type Stroke struct {
	Color color.NRGBA
	Width float64
	Dash  []float64
}

// Image is the point marker of a primitive: *Circle or *Icon.
type Image interface {
	isImage()
}

// Circle is a screen space circle; Radius is in pixels.
type Circle struct {
	Radius float64
	Fill   *Fill
	Stroke *Stroke
}

// AnchorUnits tells how an icon anchor is interpreted.
type AnchorUnits string

const (
	AnchorPixels   AnchorUnits = "pixels"
	AnchorFraction AnchorUnits = "fraction"
)

// Icon is an external image drawn at the feature anchor.
type Icon struct {
	URL          string
	Anchor       [2]float64
	AnchorXUnits AnchorUnits
	AnchorYUnits AnchorUnits
	Scale        float64
	Opacity      float64
	Rotation     float64 // radians, clockwise
}

func (*Circle) isImage() {}
func (*Icon) isImage()   {}

// Text is a label. Offsets are in pixels, y grows downwards.
type Text struct {
	Text        string
	Font        textlayout.FontSpec
	Fill        *Fill
	Background  *Fill
	BorderWidth float64
	Border      *Stroke
	OffsetX     float64
	OffsetY     float64
	Align       string // left, center, right
	Baseline    string // top, middle, bottom
	Rotation    float64
	Box         textlayout.Box
}

// Primitive is one drawing instruction. Geometry, when set, replaces the feature
// geometry and is in the display projection.
type Primitive struct {
	Fill     *Fill
	Stroke   *Stroke
	Image    Image
	Text     *Text
	Geometry orb.Geometry
}

// StyleFunc builds primitives for one feature at one resolution. A nil result
// means the feature is not drawn by this style.
type StyleFunc func(f Feature, res float64) []*Primitive

// Rendering is either a static primitive list or a per-feature function.
// The zero Rendering draws nothing.
type Rendering struct {
	Static []*Primitive
	Func   StyleFunc
}

func (r Rendering) IsZero() bool { return r.Func == nil && len(r.Static) == 0 }

// Dynamic reports whether the rendering depends on feature or resolution.
func (r Rendering) Dynamic() bool { return r.Func != nil }

// Resolve returns the primitives for f at res.
func (r Rendering) Resolve(f Feature, res float64) []*Primitive {
	if r.Func != nil {
		return r.Func(f, res)
	}
	return r.Static
}

// Concat joins two renderings, a painted before b. Absent sides are dropped; when
// either side is dynamic the result evaluates both lazily and joins their output.
func Concat(a, b Rendering) Rendering {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	}
	if !a.Dynamic() && !b.Dynamic() {
		out := make([]*Primitive, 0, len(a.Static)+len(b.Static))
		out = append(out, a.Static...)
		return Rendering{Static: append(out, b.Static...)}
	}
	return Rendering{Func: func(f Feature, res float64) []*Primitive {
		pa, pb := a.Resolve(f, res), b.Resolve(f, res)
		switch {
		case len(pa) == 0:
			return pb
		case len(pb) == 0:
			return pa
		}
		out := make([]*Primitive, 0, len(pa)+len(pb))
		out = append(out, pa...)
		return append(out, pb...)
	}}
}
