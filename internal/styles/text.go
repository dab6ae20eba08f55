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
	"strings"
	"sync"
	"sync/atomic"

	"mapstyle/internal/geom"
	"mapstyle/internal/textlayout"

	"github.com/paulmach/orb"
)

const (
	defaultTextSizePt = 10
	// DefaultMinTextSize is the point size below which ground sized labels are hidden.
	DefaultMinTextSize = 4.0
	// zoom at which a ground sized label is drawn at its nominal size
	groundTextZoom = 17
)

type providerBox struct{ p textlayout.Provider }

var defaultProvider atomic.Value // providerBox

// SetFontProvider installs the provider used to measure label boxes.
func SetFontProvider(p textlayout.Provider) { defaultProvider.Store(providerBox{p: p}) }

func fontProvider() textlayout.Provider {
	if b, _ := defaultProvider.Load().(providerBox); b.p != nil {
		return b.p
	}
	return textlayout.BasicProvider{}
}

// TextStyle labels features.
// Definition: textProp:color:size:vAlign[+-offset]:hAlign[+-offset]:backgroundColor:
// borderWidth:minVis:maxVis:orientationProp. size is in pt (default), px or m.
type TextStyle struct {
	TextProp        string
	Color           string
	Size            *Measure
	VAlign          string
	VOffset         float64
	HAlign          string
	HOffset         float64
	BackgroundColor string
	BorderWidth     float64
	MinVis          *int
	MaxVis          *int
	OrientationProp string

	// Text is a fixed label used instead of TextProp.
	Text string
	// TextFunc computes the label per feature; it wins over Text and TextProp.
	TextFunc func(Feature) string
	// Orientation is a fixed rotation in degrees clockwise.
	Orientation float64
	// MinSize hides ground sized labels smaller than this many points.
	MinSize float64
	Font    string
	Opacity float64

	cell renderCell

	// font size and offsets for the last resolution seen
	mu    sync.Mutex
	last  float64
	font  scaledFont
	valid bool
}

type scaledFont struct {
	sizePt, offX, offY float64
}

func ParseText(def string) *TextStyle {
	p := NewDefParser(def)
	s := &TextStyle{Opacity: 1, MinSize: DefaultMinTextSize}
	s.TextProp = p.String("")
	s.Color = p.String("")
	s.Size = p.UnitValue(nil)
	s.VAlign, s.VOffset = p.AlignOffset("")
	s.HAlign, s.HOffset = p.AlignOffset("")
	s.VAlign, s.HAlign = normalizeAlign(s.VAlign), normalizeAlign(s.HAlign)
	s.BackgroundColor = p.String("")
	s.BorderWidth = p.Float(0)
	s.MinVis = p.OptInt()
	s.MaxVis = p.OptInt()
	s.OrientationProp = p.String("")
	return s
}

func normalizeAlign(a string) string {
	if strings.EqualFold(a, "centre") {
		return "center"
	}
	return a
}

func (s *TextStyle) Kind() Kind { return KindText }

func (s *TextStyle) DefStr() string {
	w := &defWriter{}
	w.str(s.TextProp).str(s.Color).measure(s.Size, Points)
	w.alignOffset(s.VAlign, s.VOffset).alignOffset(s.HAlign, s.HOffset)
	w.str(s.BackgroundColor).float(s.BorderWidth)
	w.optInt(s.MinVis).optInt(s.MaxVis).str(s.OrientationProp)
	return w.String()
}

func (s *TextStyle) size() Measure {
	if s.Size == nil {
		return Measure{Value: defaultTextSizePt, Unit: Points}
	}
	return Measure{Value: s.Size.Value, Unit: s.Size.UnitOr(Points)}
}

func (s *TextStyle) dynamic() bool {
	return s.MinVis != nil || s.MaxVis != nil || s.TextFunc != nil || s.size().Unit == Meters ||
		s.TextProp != "" || s.Orientation != 0 || s.OrientationProp != ""
}

func (s *TextStyle) Render(view View) Rendering {
	return s.cell.get(func() Rendering {
		if !s.dynamic() {
			p := s.label(s.Text, s.fontAt(view, 0), 0)
			if p == nil {
				return Rendering{}
			}
			return Rendering{Static: []*Primitive{p}}
		}
		return Rendering{Func: func(f Feature, res float64) []*Primitive {
			zoom := view.ZoomForResolution(res)
			if !s.Visible(zoom) {
				return nil
			}
			sf, ok := s.fontFor(view, res)
			if !ok {
				return nil
			}
			rot := s.Orientation
			if deg, ok := propertyFloat(f, s.OrientationProp); ok {
				rot += deg
			}
			p := s.label(s.textOf(f), sf, rot*math.Pi/180)
			if p == nil {
				return nil
			}
			return []*Primitive{p}
		}}
	})
}

// Visible reports whether zoom lies within [MinVis, MaxVis].
func (s *TextStyle) Visible(zoom float64) bool {
	if s.MinVis != nil && zoom < float64(*s.MinVis) {
		return false
	}
	if s.MaxVis != nil && zoom > float64(*s.MaxVis) {
		return false
	}
	return true
}

func (s *TextStyle) textOf(f Feature) string {
	switch {
	case s.TextFunc != nil:
		return s.TextFunc(f)
	case s.Text != "":
		return s.Text
	}
	return propertyText(f, s.TextProp)
}

// fontFor returns the font for res, recomputed only when res changes.
// ok is false when a ground sized label falls below MinSize.
func (s *TextStyle) fontFor(view View, res float64) (scaledFont, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid || s.last != res {
		s.font = s.fontAt(view, res)
		s.last, s.valid = res, true
	}
	if s.size().Unit == Meters {
		threshold := s.MinSize
		if threshold <= 0 {
			threshold = DefaultMinTextSize
		}
		if s.font.sizePt < threshold {
			return s.font, false
		}
	}
	return s.font, true
}

func (s *TextStyle) fontAt(view View, res float64) scaledFont {
	size := s.size()
	sf := scaledFont{sizePt: size.Value, offX: s.HOffset, offY: s.VOffset}
	switch size.Unit {
	case Pixels:
		sf.sizePt = size.Value * 0.75
	case Meters:
		k := math.Pow(2, view.ZoomForResolution(res)-groundTextZoom)
		sf.sizePt *= k
		sf.offX *= k
		sf.offY *= k
	}
	return sf
}

func (s *TextStyle) label(text string, sf scaledFont, rot float64) *Primitive {
	if text == "" {
		return nil
	}
	colorName := s.Color
	if colorName == "" {
		colorName = "black"
	}
	t := &Text{
		Text:     text,
		Font:     textlayout.FontSpec{Family: s.fontFamily(), SizePt: sf.sizePt, Weight: 400},
		OffsetX:  sf.offX,
		OffsetY:  sf.offY,
		Align:    hAlign(s.HAlign),
		Baseline: vAlign(s.VAlign),
		Rotation: rot,
	}
	if c, ok := rgbaColor(colorName, s.Opacity); ok {
		t.Fill = &Fill{Color: c}
	}
	if c, ok := rgbaColor(s.BackgroundColor, s.Opacity); ok {
		t.Background = &Fill{Color: c}
	}
	if s.BorderWidth > 0 && t.Fill != nil {
		t.BorderWidth = s.BorderWidth
		t.Border = &Stroke{Color: t.Fill.Color, Width: s.BorderWidth}
	}
	t.Box = textlayout.Measure(fontProvider(), t.Font, text)
	return &Primitive{Text: t}
}

func (s *TextStyle) fontFamily() string {
	if s.Font == "" {
		return "sans-serif"
	}
	return s.Font
}

func hAlign(a string) string {
	switch strings.ToLower(a) {
	case "left", "right":
		return strings.ToLower(a)
	}
	return "center"
}

func vAlign(a string) string {
	switch strings.ToLower(a) {
	case "top", "bottom":
		return strings.ToLower(a)
	}
	return "middle"
}

// Anchor returns where a label for f is placed in the display projection.
func (s *TextStyle) Anchor(f Feature) (orb.Point, bool) {
	if f == nil {
		return orb.Point{}, false
	}
	return geom.Anchor(f.Geometry())
}

func (s *TextStyle) LookupProps() []string { return props(s.OrientationProp) }

func (s *TextStyle) TextProps() []string {
	if s.TextFunc != nil || s.Text != "" {
		return nil
	}
	return props(s.TextProp)
}

func (s *TextStyle) Clone() SimpleStyle {
	c := &TextStyle{
		TextProp: s.TextProp, Color: s.Color, VAlign: s.VAlign, VOffset: s.VOffset,
		HAlign: s.HAlign, HOffset: s.HOffset, BackgroundColor: s.BackgroundColor,
		BorderWidth: s.BorderWidth, OrientationProp: s.OrientationProp, Text: s.Text,
		TextFunc: s.TextFunc, Orientation: s.Orientation, MinSize: s.MinSize, Font: s.Font,
		Opacity: s.Opacity,
	}
	if s.Size != nil {
		sz := *s.Size
		c.Size = &sz
	}
	c.MinVis, c.MaxVis = copyInt(s.MinVis), copyInt(s.MaxVis)
	return c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func (s *TextStyle) WithOpacity(opacity float64) SimpleStyle {
	c := s.Clone().(*TextStyle)
	c.Opacity = opacity
	return c
}

func (s *TextStyle) WithOrientationProp(prop string) SimpleStyle {
	c := s.Clone().(*TextStyle)
	c.OrientationProp = prop
	return c
}

func (s *TextStyle) WithMinArrowLength(float64) SimpleStyle { return s.Clone() }

// WithMinSize returns a copy hiding ground sized labels below pt points.
func (s *TextStyle) WithMinSize(pt float64) *TextStyle {
	c := s.Clone().(*TextStyle)
	c.MinSize = pt
	return c
}
