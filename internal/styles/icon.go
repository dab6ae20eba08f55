/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"math"

	"mapstyle/internal/geom"

	"github.com/paulmach/orb"
)

// IconStyle draws an external image at point features.
// Definition: url:anchorX:anchorY:size. Anchors default to 16 and 32 pixels;
// anchors in % are fractions of the icon. size is in px (default), % or m.
type IconStyle struct {
	URL     string
	AnchorX Measure
	AnchorY Measure
	Size    *Measure
	// OrientationProp names a property holding the rotation in degrees clockwise.
	OrientationProp string
	Opacity         float64

	cell renderCell
}

func ParseIcon(def string) *IconStyle {
	p := NewDefParser(def)
	s := &IconStyle{Opacity: 1}
	s.URL = p.String("")
	s.AnchorX = measureOr(p.UnitValue(px(16)), Measure{Value: 16, Unit: Pixels})
	s.AnchorY = measureOr(p.UnitValue(px(32)), Measure{Value: 32, Unit: Pixels})
	s.Size = p.UnitValue(nil)
	return s
}

func measureOr(m *Measure, def Measure) Measure {
	if m == nil {
		return def
	}
	return *m
}

func (s *IconStyle) Kind() Kind { return KindPoint }

func (s *IconStyle) DefStr() string {
	w := &defWriter{}
	ax, ay := s.AnchorX, s.AnchorY
	return w.str(s.URL).measure(&ax, Pixels).measure(&ay, Pixels).measure(s.Size, Pixels).String()
}

func (s *IconStyle) Render(view View) Rendering {
	return s.cell.get(func() Rendering { return s.build(view) })
}

func (s *IconStyle) base() *Icon {
	ic := &Icon{URL: s.URL, Scale: 1, Opacity: s.Opacity}
	ic.Anchor[0], ic.AnchorXUnits = anchorOf(s.AnchorX)
	ic.Anchor[1], ic.AnchorYUnits = anchorOf(s.AnchorY)
	return ic
}

func anchorOf(m Measure) (float64, AnchorUnits) {
	if m.UnitOr(Pixels) == Percent {
		return m.Value / 100, AnchorFraction
	}
	return m.Value, AnchorPixels
}

func (s *IconStyle) build(view View) Rendering {
	if s.Size == nil && s.OrientationProp == "" {
		return Rendering{Static: []*Primitive{{Image: s.base()}}}
	}
	return Rendering{Func: func(f Feature, res float64) []*Primitive {
		ic := s.base()
		ic.Scale = s.scale(view, f, res)
		if deg, ok := propertyFloat(f, s.OrientationProp); ok {
			ic.Rotation = deg * math.Pi / 180
		}
		return []*Primitive{{Image: ic}}
	}}
}

func (s *IconStyle) scale(view View, f Feature, res float64) float64 {
	if s.Size == nil {
		return 1
	}
	unit := s.Size.UnitOr(Pixels)
	if unit == Percent {
		return s.Size.Value / 100
	}
	w, _, ok := iconSize(s.URL)
	if !ok || w <= 0 {
		return 1
	}
	switch unit {
	case Meters:
		var anchor orb.Point
		if f != nil {
			anchor, _ = geom.Anchor(f.Geometry())
		}
		return metersToPixels(view, s.Size.Value, view.ToMetric(anchor), res) / float64(w)
	case Points:
		return s.Size.Value * 4 / 3 / float64(w)
	}
	return s.Size.Value / float64(w)
}

func (s *IconStyle) LookupProps() []string { return props(s.OrientationProp) }
func (s *IconStyle) TextProps() []string   { return nil }

func (s *IconStyle) Clone() SimpleStyle {
	c := &IconStyle{URL: s.URL, AnchorX: s.AnchorX, AnchorY: s.AnchorY, OrientationProp: s.OrientationProp, Opacity: s.Opacity}
	if s.Size != nil {
		sz := *s.Size
		c.Size = &sz
	}
	return c
}

func (s *IconStyle) WithOpacity(opacity float64) SimpleStyle {
	c := s.Clone().(*IconStyle)
	c.Opacity = opacity
	return c
}

func (s *IconStyle) WithOrientationProp(prop string) SimpleStyle {
	c := s.Clone().(*IconStyle)
	c.OrientationProp = prop
	return c
}

func (s *IconStyle) WithMinArrowLength(float64) SimpleStyle { return s.Clone() }
