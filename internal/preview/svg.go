/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"mapstyle/internal/styles"

	"github.com/paulmach/orb"
)

type svgCanvas struct {
	wf func(format string, args ...any)
}

func paintAttrs(fill *styles.Fill, stroke *styles.Stroke) string {
	var b strings.Builder
	if fill != nil {
		fmt.Fprintf(&b, " fill=\"%s\"", styles.CSS(fill.Color))
	} else {
		b.WriteString(" fill=\"none\"")
	}
	if stroke != nil && stroke.Width > 0 {
		fmt.Fprintf(&b, " stroke=\"%s\" stroke-width=\"%g\"", styles.CSS(stroke.Color), stroke.Width)
		if len(stroke.Dash) > 0 {
			parts := make([]string, len(stroke.Dash))
			for i, d := range stroke.Dash {
				parts[i] = fmt.Sprintf("%g", d)
			}
			fmt.Fprintf(&b, " stroke-dasharray=\"%s\"", strings.Join(parts, " "))
		}
	}
	return b.String()
}

func (c *svgCanvas) path(rings [][]orb.Point, closed bool, fill *styles.Fill, stroke *styles.Stroke) {
	var d strings.Builder
	for _, r := range rings {
		for i, p := range r {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s%g %g ", cmd, round2(p[0]), round2(p[1]))
		}
		if closed {
			d.WriteString("Z ")
		}
	}
	c.wf("  <path d=\"%s\"%s/>\n", strings.TrimSpace(d.String()), paintAttrs(fill, stroke))
}

func (c *svgCanvas) circle(at orb.Point, r float64, fill *styles.Fill, stroke *styles.Stroke) {
	c.wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\"%s/>\n", round2(at[0]), round2(at[1]), round2(r), paintAttrs(fill, stroke))
}

func (c *svgCanvas) icon(ic *styles.Icon, at orb.Point) {
	x, y, w, h := iconRect(ic, at, iconBox, iconBox)
	rot := ""
	if ic.Rotation != 0 {
		rot = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", round2(degrees(ic.Rotation)), round2(at[0]), round2(at[1]))
	}
	c.wf("  <image href=\"%s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" opacity=\"%g\"%s/>\n",
		escAttr(ic.URL), round2(x), round2(y), round2(w), round2(h), ic.Opacity, rot)
}

var svgAnchor = map[string]string{"left": "start", "center": "middle", "right": "end"}
var svgBaseline = map[string]string{"top": "hanging", "middle": "middle", "bottom": "auto"}

func (c *svgCanvas) text(t *styles.Text, at orb.Point) {
	x, y := at[0]+t.OffsetX, at[1]+t.OffsetY
	rot := ""
	if t.Rotation != 0 {
		rot = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", round2(degrees(t.Rotation)), round2(at[0]), round2(at[1]))
	}
	px := t.Font.PixelSize(96)
	if t.Background != nil || t.Border != nil {
		bx, by := boxOrigin(t, x, y)
		pad := 2.0
		c.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s%s/>\n",
			round2(bx-pad), round2(by-pad), round2(t.Box.Width+2*pad), round2(t.Box.Height+2*pad),
			paintAttrs(t.Background, t.Border), rot)
	}
	fill := "#000000"
	if t.Fill != nil {
		fill = styles.CSS(t.Fill.Color)
	}
	c.wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%gpx\" text-anchor=\"%s\" dominant-baseline=\"%s\" fill=\"%s\"%s>%s</text>\n",
		round2(x), round2(y), escAttr(t.Font.Family), round2(px), svgAnchor[t.Align], svgBaseline[t.Baseline], fill, rot, escText(t.Text))
}

// boxOrigin is the top-left corner of a label box placed at (x, y) with the label's alignment.
func boxOrigin(t *styles.Text, x, y float64) (float64, float64) {
	switch t.Align {
	case "left":
	case "right":
		x -= t.Box.Width
	default:
		x -= t.Box.Width / 2
	}
	switch t.Baseline {
	case "top":
	case "bottom":
		y -= t.Box.Height
	default:
		y -= t.Box.Height / 2
	}
	return x, y
}

// SVG writes a swatch of el drawn on a synthetic geometry of the given kind.
func SVG(w io.Writer, el styles.Element, kind GeomKind, opt Options) error {
	width, height := opt.size()
	prims, f := Primitives(el, kind, opt)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", width, height, width, height)
	draw(&svgCanvas{wf: wf}, prims, f, frame{k: 1, h: float64(height)})
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
