/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"log/slog"
	"math"
	"strings"
	"sync"

	"mapstyle/internal/geom"
	applog "mapstyle/internal/log"

	"github.com/paulmach/orb"
)

const defaultSymbolSize = 10

// SymbolStyle draws one of the built-in symbols at point features.
// Definition: name:color:size:borderColor; borderColor defaults to color.
type SymbolStyle struct {
	Symbol      string
	Color       string
	Size        *Measure
	BorderColor string
	// OrientationProp names a property holding the rotation in degrees clockwise.
	OrientationProp string
	Opacity         float64

	cell renderCell

	// circles with a ground size, one entry per resolution; resolutions seen
	// while rendering are few (one per zoom level) so entries are never evicted
	mu    sync.Mutex
	byRes map[float64][]*Primitive
}

func ParseSymbol(def string) *SymbolStyle {
	p := NewDefParser(def)
	s := &SymbolStyle{Opacity: 1}
	s.Symbol = strings.ToLower(strings.TrimSpace(p.String("circle")))
	s.Color = p.String("")
	s.Size = p.UnitValue(nil)
	s.BorderColor = p.String(s.Color)
	return s
}

func (s *SymbolStyle) Kind() Kind { return KindPoint }

func (s *SymbolStyle) DefStr() string {
	w := &defWriter{}
	w.str(s.Symbol).str(s.Color).measure(s.Size, Pixels)
	if s.BorderColor != "" && s.BorderColor != s.Color {
		w.str(s.BorderColor)
	} else {
		w.str("")
	}
	return w.String()
}

func (s *SymbolStyle) size() Measure {
	if s.Size == nil {
		return Measure{Value: defaultSymbolSize, Unit: Pixels}
	}
	return Measure{Value: s.Size.Value, Unit: s.Size.UnitOr(Pixels)}
}

func (s *SymbolStyle) paint() (*Fill, *Stroke) {
	var fill *Fill
	var stroke *Stroke
	if c, ok := rgbaColor(s.Color, s.Opacity); ok {
		fill = &Fill{Color: c}
	}
	border := s.BorderColor
	if border == "" {
		border = s.Color
	}
	if c, ok := rgbaColor(border, s.Opacity); ok {
		stroke = &Stroke{Color: c, Width: 1}
	}
	return fill, stroke
}

func (s *SymbolStyle) Render(view View) Rendering {
	return s.cell.get(func() Rendering { return s.build(view) })
}

func (s *SymbolStyle) build(view View) Rendering {
	size := s.size()
	fill, stroke := s.paint()
	if s.Symbol == "circle" {
		if size.Unit != Meters {
			r := toPixels(view, size, orb.Point{}, 1) / 2
			return Rendering{Static: []*Primitive{{Image: &Circle{Radius: r, Fill: fill, Stroke: stroke}}}}
		}
		return Rendering{Func: func(f Feature, res float64) []*Primitive {
			return s.groundCircle(view, f, res, size, fill, stroke)
		}}
	}
	if !IsSymbol(s.Symbol) {
		applog.WithComponent("styles").Warn("unknown symbol", slog.String("symbol", s.Symbol))
		return Rendering{}
	}
	return Rendering{Func: func(f Feature, res float64) []*Primitive {
		if f == nil {
			return nil
		}
		anchor, ok := geom.Anchor(f.Geometry())
		if !ok {
			return nil
		}
		metric := view.ToMetric(anchor)
		ring, _ := symbolRing(s.Symbol, toMetricLength(view, size, metric, res))
		m := geom.Translate(metric[0], metric[1])
		if deg, ok := propertyFloat(f, s.OrientationProp); ok {
			m = m.Mul(geom.Rotate(-deg * math.Pi / 180))
		}
		ring = m.ApplyRing(ring)
		for i, p := range ring {
			ring[i] = view.FromMetric(p)
		}
		return []*Primitive{{Geometry: orb.Polygon{ring}, Fill: fill, Stroke: stroke}}
	}}
}

// groundCircle converts the ground diameter at the first feature seen for a
// resolution and reuses the primitive for every other feature at that resolution.
func (s *SymbolStyle) groundCircle(view View, f Feature, res float64, size Measure, fill *Fill, stroke *Stroke) []*Primitive {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byRes[res]; ok {
		return p
	}
	var anchor orb.Point
	if f != nil {
		anchor, _ = geom.Anchor(f.Geometry())
	}
	r := metersToPixels(view, size.Value, view.ToMetric(anchor), res) / 2
	p := []*Primitive{{Image: &Circle{Radius: r, Fill: fill, Stroke: stroke}}}
	if s.byRes == nil {
		s.byRes = make(map[float64][]*Primitive)
	}
	s.byRes[res] = p
	return p
}

func (s *SymbolStyle) LookupProps() []string { return props(s.OrientationProp) }
func (s *SymbolStyle) TextProps() []string   { return nil }

func (s *SymbolStyle) Clone() SimpleStyle {
	c := &SymbolStyle{Symbol: s.Symbol, Color: s.Color, BorderColor: s.BorderColor, OrientationProp: s.OrientationProp, Opacity: s.Opacity}
	if s.Size != nil {
		sz := *s.Size
		c.Size = &sz
	}
	return c
}

func (s *SymbolStyle) WithOpacity(opacity float64) SimpleStyle {
	c := s.Clone().(*SymbolStyle)
	c.Opacity = opacity
	return c
}

func (s *SymbolStyle) WithOrientationProp(prop string) SimpleStyle {
	c := s.Clone().(*SymbolStyle)
	c.OrientationProp = prop
	return c
}

func (s *SymbolStyle) WithMinArrowLength(float64) SimpleStyle { return s.Clone() }
