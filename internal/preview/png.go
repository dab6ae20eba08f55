/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"math"
	"strings"

	"mapstyle/internal/styles"
	"mapstyle/internal/textlayout"

	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type pngCanvas struct {
	img   *image.NRGBA
	z     *vector.Rasterizer
	icons fs.FS
	fonts textlayout.Provider
}

func newPNGCanvas(w, h int, icons fs.FS, fonts textlayout.Provider) *pngCanvas {
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	return &pngCanvas{img: image.NewNRGBA(image.Rect(0, 0, w, h)), z: vector.NewRasterizer(w, h), icons: icons, fonts: fonts}
}

// fillPoly rasterises one closed polygon with c.
func (c *pngCanvas) fillPoly(pts []orb.Point, col color.NRGBA) {
	if len(pts) < 3 || col.A == 0 {
		return
	}
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p[0]), float32(p[1]))
	}
	c.z.ClosePath()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// strokeLine paints each dash-on run of a polyline as separate quads, so that
// overlapping segments never cancel each other's coverage.
func (c *pngCanvas) strokeLine(pts []orb.Point, s *styles.Stroke) {
	if s == nil || s.Width <= 0 || len(pts) < 2 {
		return
	}
	hw := math.Max(s.Width, 1) / 2
	for _, seg := range dashRuns(pts, s.Dash) {
		a, b := seg[0], seg[1]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		c.fillPoly([]orb.Point{
			{a[0] + nx, a[1] + ny}, {b[0] + nx, b[1] + ny},
			{b[0] - nx, b[1] - ny}, {a[0] - nx, a[1] - ny},
		}, s.Color)
	}
}

// dashRuns splits a polyline into straight "on" segments following the dash pattern.
func dashRuns(pts []orb.Point, dash []float64) [][2]orb.Point {
	var out [][2]orb.Point
	total := 0.0
	for _, d := range dash {
		total += d
	}
	if len(dash) == 0 || total <= 0 {
		for i := 1; i < len(pts); i++ {
			out = append(out, [2]orb.Point{pts[i-1], pts[i]})
		}
		return out
	}
	if len(dash)%2 == 1 {
		dash = append(append([]float64(nil), dash...), dash...)
	}
	idx, left, on := 0, dash[0], true
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := math.Hypot(b[0]-a[0], b[1]-a[1])
		pos := 0.0
		for pos < segLen {
			step := math.Min(left, segLen-pos)
			if on && step > 0 {
				p0 := lerp(a, b, pos/segLen)
				p1 := lerp(a, b, (pos+step)/segLen)
				out = append(out, [2]orb.Point{p0, p1})
			}
			pos += step
			left -= step
			if left <= 1e-9 {
				idx = (idx + 1) % len(dash)
				left, on = dash[idx], !on
			}
		}
	}
	return out
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

func (c *pngCanvas) path(rings [][]orb.Point, closed bool, fill *styles.Fill, stroke *styles.Stroke) {
	if closed && fill != nil {
		for _, r := range rings {
			c.fillPoly(r, fill.Color)
		}
	}
	for _, r := range rings {
		if closed && len(r) > 0 && r[0] != r[len(r)-1] {
			r = append(r, r[0])
		}
		c.strokeLine(r, stroke)
	}
}

func circlePoints(at orb.Point, r float64) []orb.Point {
	const n = 48
	pts := make([]orb.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		pts = append(pts, orb.Point{at[0] + r*math.Cos(a), at[1] + r*math.Sin(a)})
	}
	return pts
}

func (c *pngCanvas) circle(at orb.Point, r float64, fill *styles.Fill, stroke *styles.Stroke) {
	pts := circlePoints(at, r)
	if fill != nil {
		c.fillPoly(pts, fill.Color)
	}
	c.strokeLine(pts, stroke)
}

func (c *pngCanvas) icon(ic *styles.Icon, at orb.Point) {
	if src := c.loadIcon(ic.URL); src != nil {
		sb := src.Bounds()
		x, y, w, h := iconRect(ic, at, float64(sb.Dx()), float64(sb.Dy()))
		dst := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
		xdraw.ApproxBiLinear.Scale(c.img, dst, src, sb, xdraw.Over, nil)
		return
	}
	// placeholder frame when the image is not available
	x, y, w, h := iconRect(ic, at, iconBox, iconBox)
	grey := color.NRGBA{R: 128, G: 128, B: 128, A: uint8(255 * math.Max(0, math.Min(1, ic.Opacity)))}
	c.path([][]orb.Point{{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}}, true, nil, &styles.Stroke{Color: grey, Width: 1})
}

func (c *pngCanvas) loadIcon(url string) image.Image {
	if c.icons == nil || url == "" {
		return nil
	}
	f, err := c.icons.Open(strings.TrimPrefix(url, "/"))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	return img
}

func (c *pngCanvas) text(t *styles.Text, at orb.Point) {
	x, y := at[0]+t.OffsetX, at[1]+t.OffsetY
	if t.Background != nil || t.Border != nil {
		bx, by := boxOrigin(t, x, y)
		box := []orb.Point{{bx - 2, by - 2}, {bx + t.Box.Width + 2, by - 2}, {bx + t.Box.Width + 2, by + t.Box.Height + 2}, {bx - 2, by + t.Box.Height + 2}}
		c.path([][]orb.Point{box}, true, t.Background, t.Border)
	}
	face, _ := c.fonts.Resolve(t.Font)
	col := color.NRGBA{A: 255}
	if t.Fill != nil {
		col = t.Fill.Color
	}
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
	w := float64(d.MeasureString(t.Text)) / 64
	switch t.Align {
	case "left":
	case "right":
		x -= w
	default:
		x -= w / 2
	}
	asc := float64(face.Metrics().Ascent) / 64
	switch t.Baseline {
	case "top":
		y += asc
	case "bottom":
	default:
		y += asc / 2
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	d.DrawString(t.Text)
}

// PNG writes a raster swatch of el drawn on a synthetic geometry of the given kind.
func PNG(w io.Writer, el styles.Element, kind GeomKind, opt Options) error {
	width, height := opt.size()
	prims, f := Primitives(el, kind, opt)
	c := newPNGCanvas(width, height, opt.Icons, opt.Fonts)
	draw(c, prims, f, frame{k: 1, h: float64(height)})
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
