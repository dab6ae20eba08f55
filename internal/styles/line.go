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
	"log/slog"

	"mapstyle/internal/geom"
	applog "mapstyle/internal/log"

	"github.com/paulmach/orb"
)

const (
	// DefaultArrowLength is the arrow length in multiples of the line width.
	DefaultArrowLength = 6.0
	// DefaultMinArrowLength is the pixel length arrows must exceed to be drawn.
	DefaultMinArrowLength = 5.0
	// arrow marker kinds for start and end
	arrowMarker = "arrow"
	// line style that repeats direction arrows along the line
	arrowedLine = "arrowed"
)

// dash patterns in multiples of the line width
var dashPatterns = map[string][]float64{
	"dash":        {5, 5},
	"shortdash":   {2, 2},
	"longdash":    {10, 4},
	"dot":         {1, 2},
	"longdashdot": {10, 5, 1, 5},
}

// LineStyle strokes lines and polygon outlines.
// Definition: color:width:lineStyle:startStyle:endStyle. width is in px (default) or m;
// lineStyle is a dash name or "arrowed"; start and end accept "arrow".
type LineStyle struct {
	Color      string
	Width      *Measure
	Dash       string
	StartStyle string
	EndStyle   string
	// LinePattern overrides the named dash pattern, in multiples of the width.
	LinePattern []float64
	// ArrowLength is in multiples of the width.
	ArrowLength    float64
	MinArrowLength float64
	Opacity        float64

	cell renderCell
}

func ParseLine(def string) *LineStyle {
	p := NewDefParser(def)
	s := &LineStyle{Opacity: 1, ArrowLength: DefaultArrowLength, MinArrowLength: DefaultMinArrowLength}
	s.Color = p.String("")
	s.Width = p.UnitValue(nil)
	s.Dash = p.String("")
	s.StartStyle = p.String("")
	s.EndStyle = p.String("")
	return s
}

func (s *LineStyle) Kind() Kind { return KindLine }

func (s *LineStyle) DefStr() string {
	w := &defWriter{}
	return w.str(s.Color).measure(s.Width, Pixels).str(s.Dash).str(s.StartStyle).str(s.EndStyle).String()
}

func (s *LineStyle) width() Measure {
	if s.Width == nil {
		return Measure{Value: 1, Unit: Pixels}
	}
	return Measure{Value: s.Width.Value, Unit: s.Width.UnitOr(Pixels)}
}

// HasArrows reports whether the style draws start, end or direction arrows.
func (s *LineStyle) HasArrows() bool {
	return s.StartStyle == arrowMarker || s.EndStyle == arrowMarker || s.Dash == arrowedLine
}

// DashPattern returns the dash lengths in pixels for a line widthPx wide, or nil for solid lines.
func (s *LineStyle) DashPattern(widthPx float64) []float64 {
	base := s.LinePattern
	if len(base) == 0 {
		base = dashPatterns[s.Dash]
	}
	if len(base) == 0 {
		return nil
	}
	out := make([]float64, len(base))
	for i, v := range base {
		out[i] = v * widthPx
	}
	return out
}

func (s *LineStyle) Render(view View) Rendering {
	return s.cell.get(func() Rendering { return s.build(view) })
}

func (s *LineStyle) build(view View) Rendering {
	if _, ok := dashPatterns[s.Dash]; !ok && len(s.LinePattern) == 0 {
		switch s.Dash {
		case "", "solid", arrowedLine:
		default:
			applog.WithComponent("styles").Warn("unknown line style, drawing solid", slog.String("lineStyle", s.Dash))
		}
	}
	c, ok := rgbaColor(s.Color, s.Opacity)
	width := s.width()
	stroke := func(px float64) *Stroke {
		if !ok {
			return nil
		}
		return &Stroke{Color: c, Width: px, Dash: s.DashPattern(px)}
	}
	if !s.HasArrows() && width.Unit != Meters {
		return Rendering{Static: []*Primitive{{Stroke: stroke(toPixels(view, width, orb.Point{}, 1))}}}
	}
	return Rendering{Func: func(f Feature, res float64) []*Primitive {
		var g orb.Geometry
		if f != nil {
			g = f.Geometry()
		}
		anchor, _ := geom.Anchor(g)
		metric := view.ToMetric(anchor)
		widthPx := toPixels(view, width, metric, res)
		out := []*Primitive{{Stroke: stroke(widthPx)}}
		if s.HasArrows() && ok {
			if arrows := s.arrows(view, g, res, widthPx); arrows != nil {
				out = append(out, &Primitive{Geometry: arrows, Fill: &Fill{Color: c}, Stroke: &Stroke{Color: c, Width: 1}})
			}
		}
		return out
	}}
}

// arrows builds arrowheads in EPSG:3857 and returns them in the display projection.
// Nothing is returned unless the arrow length exceeds MinArrowLength pixels.
func (s *LineStyle) arrows(view View, g orb.Geometry, res, widthPx float64) orb.Geometry {
	if g == nil {
		return nil
	}
	factor := s.ArrowLength
	if factor <= 0 {
		factor = DefaultArrowLength
	}
	lenPx := factor * widthPx
	if !(lenPx > s.MinArrowLength) {
		return nil
	}
	lenM := lenPx * view.MetricResolution(res)
	opts := geom.ArrowOptions{Length: lenM}
	var polys orb.MultiPolygon
	for _, ls := range geom.Lines(geom.Project(g, view.ToMetric)) {
		if len(ls) < 2 || geom.Length(ls) == 0 {
			continue
		}
		if s.StartStyle == arrowMarker {
			polys = append(polys, geom.Arrowhead(ls[0], geom.StartDirection(ls), opts))
		}
		if s.EndStyle == arrowMarker {
			polys = append(polys, geom.Arrowhead(ls[len(ls)-1], geom.EndDirection(ls), opts))
		}
		if s.Dash == arrowedLine {
			for _, d := range geom.DirectionArrowCenters(geom.Length(ls), 4*lenM) {
				p, dir := geom.PointAt(ls, d)
				polys = append(polys, geom.CenteredArrowhead(p, dir, opts))
			}
		}
	}
	if len(polys) == 0 {
		return nil
	}
	return geom.Project(polys, view.FromMetric)
}

// StrokeColor is the resolved line color, used by previews for legends.
func (s *LineStyle) StrokeColor() (color.NRGBA, bool) { return rgbaColor(s.Color, s.Opacity) }

func (s *LineStyle) LookupProps() []string { return nil }
func (s *LineStyle) TextProps() []string   { return nil }

func (s *LineStyle) Clone() SimpleStyle {
	c := &LineStyle{
		Color: s.Color, Dash: s.Dash, StartStyle: s.StartStyle, EndStyle: s.EndStyle,
		ArrowLength: s.ArrowLength, MinArrowLength: s.MinArrowLength, Opacity: s.Opacity,
	}
	if s.Width != nil {
		w := *s.Width
		c.Width = &w
	}
	if len(s.LinePattern) > 0 {
		c.LinePattern = append([]float64(nil), s.LinePattern...)
	}
	return c
}

func (s *LineStyle) WithOpacity(opacity float64) SimpleStyle {
	c := s.Clone().(*LineStyle)
	c.Opacity = opacity
	return c
}

func (s *LineStyle) WithOrientationProp(string) SimpleStyle { return s.Clone() }

func (s *LineStyle) WithMinArrowLength(px float64) SimpleStyle {
	c := s.Clone().(*LineStyle)
	c.MinArrowLength = px
	return c
}
