/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview draws styles against synthetic geometries: SVG and PNG
// swatches for editors and a PDF legend sheet for a whole catalog.
package preview

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"mapstyle/internal/geom"
	"mapstyle/internal/styles"
	"mapstyle/internal/textlayout"

	"github.com/paulmach/orb"
)

// GeomKind selects the synthetic geometry a style is drawn on.
type GeomKind string

const (
	PointGeom   GeomKind = "point"
	LineGeom    GeomKind = "line"
	PolygonGeom GeomKind = "polygon"
)

// Options controls swatch output.
//   - Width/Height: swatch size in pixels (default 64x64)
//   - Props: feature properties for lookup and text styles
//   - Label: text used by text styles whose property is missing from Props
//   - Icons: file system icon URLs are resolved against (PNG only)
//   - Fonts: face provider for PNG labels (basicfont when nil)
type Options struct {
	Width  int
	Height int
	Props  map[string]any
	Label  string
	Icons  fs.FS
	Fonts  textlayout.Provider
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 64
	}
	if h <= 0 {
		h = 64
	}
	return w, h
}

// KindFor picks the geometry a style is best shown on.
func KindFor(el styles.Element) GeomKind {
	if s, ok := el.(*styles.Style); ok {
		kind := PointGeom
		for _, inner := range s.Elements() {
			switch KindFor(inner) {
			case PolygonGeom:
				return PolygonGeom
			case LineGeom:
				kind = LineGeom
			}
		}
		return kind
	}
	switch el.Kind() {
	case styles.KindFill:
		return PolygonGeom
	case styles.KindLine:
		return LineGeom
	}
	return PointGeom
}

// SampleFeature builds the synthetic feature for a w x h swatch. Coordinates are
// pixels with y pointing up, as styles.PixelView expects.
func SampleFeature(kind GeomKind, w, h int, props map[string]any) styles.MapFeature {
	fw, fh := float64(w), float64(h)
	var g orb.Geometry
	switch kind {
	case LineGeom:
		g = orb.LineString{{fw * 0.1, fh * 0.25}, {fw * 0.45, fh * 0.7}, {fw * 0.9, fh * 0.4}}
	case PolygonGeom:
		g = orb.Polygon{orb.Ring{
			{fw * 0.15, fh * 0.15}, {fw * 0.85, fh * 0.15}, {fw * 0.85, fh * 0.85},
			{fw * 0.15, fh * 0.85}, {fw * 0.15, fh * 0.15},
		}}
	default:
		g = orb.Point{fw / 2, fh / 2}
	}
	return styles.MapFeature{Geom: g, Props: props}
}

// labelFeature falls back to opt.Label for every text property missing from Props.
func labelFeature(el styles.Element, kind GeomKind, w, h int, opt Options) styles.MapFeature {
	props := make(map[string]any, len(opt.Props)+1)
	for k, v := range opt.Props {
		props[k] = v
	}
	label := opt.Label
	if label == "" {
		label = "Abc"
	}
	for _, p := range el.TextProps() {
		if _, ok := props[p]; !ok {
			props[p] = label
		}
	}
	return SampleFeature(kind, w, h, props)
}

// Primitives renders el on the sample geometry at resolution 1.
func Primitives(el styles.Element, kind GeomKind, opt Options) ([]*styles.Primitive, styles.MapFeature) {
	w, h := opt.size()
	f := labelFeature(el, kind, w, h, opt)
	return el.Render(styles.PixelView).Resolve(f, 1), f
}

// canvas is a drawing backend; coordinates are in its own space, y down.
type canvas interface {
	path(rings [][]orb.Point, closed bool, fill *styles.Fill, stroke *styles.Stroke)
	circle(c orb.Point, r float64, fill *styles.Fill, stroke *styles.Stroke)
	icon(ic *styles.Icon, at orb.Point)
	text(t *styles.Text, at orb.Point)
}

// frame maps swatch pixels (y up) into a canvas box.
type frame struct {
	ox, oy, k, h float64
}

func (fr frame) pt(p orb.Point) orb.Point {
	return orb.Point{fr.ox + p[0]*fr.k, fr.oy + (fr.h-p[1])*fr.k}
}

func (fr frame) rings(g orb.Geometry) (out [][]orb.Point, closed bool) {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		closed = true
	}
	for _, ls := range geom.Lines(g) {
		r := make([]orb.Point, len(ls))
		for i, p := range ls {
			r[i] = fr.pt(p)
		}
		out = append(out, r)
	}
	return out, closed
}

// draw replays primitives onto c, painting in order.
func draw(c canvas, prims []*styles.Primitive, f styles.Feature, fr frame) {
	for _, p := range prims {
		if p == nil {
			continue
		}
		g := p.Geometry
		if g == nil {
			g = f.Geometry()
		}
		anchor, _ := geom.Anchor(g)
		switch {
		case p.Image != nil:
			switch img := p.Image.(type) {
			case *styles.Circle:
				c.circle(fr.pt(anchor), img.Radius*fr.k, img.Fill, scaleStroke(img.Stroke, fr.k))
			case *styles.Icon:
				c.icon(img, fr.pt(anchor))
			}
		case p.Text != nil:
			c.text(p.Text, fr.pt(anchor))
		default:
			if _, isPoint := g.(orb.Point); isPoint {
				continue
			}
			rings, closed := fr.rings(g)
			fill := p.Fill
			if !closed {
				fill = nil
			}
			c.path(rings, closed, fill, scaleStroke(p.Stroke, fr.k))
		}
	}
}

func scaleStroke(s *styles.Stroke, k float64) *styles.Stroke {
	if s == nil || k == 1 {
		return s
	}
	out := &styles.Stroke{Color: s.Color, Width: s.Width * k}
	for _, d := range s.Dash {
		out.Dash = append(out.Dash, d*k)
	}
	return out
}

// iconBox is the drawn size of an icon whose image is not available.
const iconBox = 24

func iconRect(ic *styles.Icon, at orb.Point, w, h float64) (x, y, sw, sh float64) {
	scale := ic.Scale
	if scale <= 0 {
		scale = 1
	}
	sw, sh = w*scale, h*scale
	ax, ay := ic.Anchor[0], ic.Anchor[1]
	if ic.AnchorXUnits == styles.AnchorFraction {
		ax *= sw
	} else {
		ax *= scale
	}
	if ic.AnchorYUnits == styles.AnchorFraction {
		ay *= sh
	} else {
		ay *= scale
	}
	return at[0] - ax, at[1] - ay, sw, sh
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// WriteFile writes an SVG or PNG swatch, chosen by the file extension.
func WriteFile(path string, el styles.Element, kind GeomKind, opt Options) (err error) {
	var write func(io.Writer, styles.Element, GeomKind, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		write = SVG
	case ".png":
		write = PNG
	default:
		return fmt.Errorf("unsupported swatch format %q", filepath.Ext(path))
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create swatch: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close swatch: %w", cerr)
		}
	}()
	return write(f, el, kind, opt)
}
