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
	"image/color"
	"os"
	"path/filepath"

	"mapstyle/internal/styles"

	"github.com/jung-kurt/gofpdf"
	"github.com/paulmach/orb"
)

// LegendEntry is one row of a legend sheet.
type LegendEntry struct {
	Name    string
	Element styles.Element
	// Kind overrides the sample geometry; empty picks KindFor(Element).
	Kind GeomKind
}

// LegendOptions controls the PDF legend. Units are points.
type LegendOptions struct {
	Title   string
	Swatch  float64 // swatch edge, default 24
	Margin  float64 // page margin, default 36
	Preview Options // sample props/label; Width/Height give the swatch's pixel grid
}

type pdfCanvas struct {
	pdf *gofpdf.Fpdf
	k   float64 // points per swatch pixel
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.NRGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.NRGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

// paint selects colors and returns the gofpdf style string, "" when nothing is drawn.
func (c *pdfCanvas) paint(fill *styles.Fill, stroke *styles.Stroke) string {
	style := ""
	alpha := 1.0
	if fill != nil && fill.Color.A > 0 {
		setFillColor(c.pdf, fill.Color)
		alpha = float64(fill.Color.A) / 255
		style += "F"
	}
	if stroke != nil && stroke.Width > 0 && stroke.Color.A > 0 {
		setDrawColor(c.pdf, stroke.Color)
		c.pdf.SetLineWidth(stroke.Width)
		c.pdf.SetDashPattern(stroke.Dash, 0)
		if style == "" {
			alpha = float64(stroke.Color.A) / 255
		}
		style += "D"
	}
	c.pdf.SetAlpha(alpha, "Normal")
	return style
}

func (c *pdfCanvas) reset() {
	c.pdf.SetAlpha(1, "Normal")
	c.pdf.SetDashPattern([]float64{}, 0)
}

func (c *pdfCanvas) path(rings [][]orb.Point, closed bool, fill *styles.Fill, stroke *styles.Stroke) {
	style := c.paint(fill, stroke)
	defer c.reset()
	if style == "" {
		return
	}
	for _, r := range rings {
		if len(r) < 2 {
			continue
		}
		if closed {
			pts := make([]gofpdf.PointType, len(r))
			for i, p := range r {
				pts[i] = gofpdf.PointType{X: p[0], Y: p[1]}
			}
			c.pdf.Polygon(pts, style)
			continue
		}
		c.pdf.MoveTo(r[0][0], r[0][1])
		for _, p := range r[1:] {
			c.pdf.LineTo(p[0], p[1])
		}
		c.pdf.DrawPath("D")
	}
}

func (c *pdfCanvas) circle(at orb.Point, r float64, fill *styles.Fill, stroke *styles.Stroke) {
	style := c.paint(fill, stroke)
	defer c.reset()
	if style != "" {
		c.pdf.Circle(at[0], at[1], r, style)
	}
}

func (c *pdfCanvas) icon(ic *styles.Icon, at orb.Point) {
	x, y, w, h := iconRect(ic, at, iconBox*c.k, iconBox*c.k)
	setDrawColor(c.pdf, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	c.pdf.SetLineWidth(0.5)
	c.pdf.Rect(x, y, w, h, "D")
}

func (c *pdfCanvas) text(t *styles.Text, at orb.Point) {
	size := t.Font.SizePt * c.k
	if size <= 0 {
		return
	}
	col := color.NRGBA{A: 255}
	if t.Fill != nil {
		col = t.Fill.Color
	}
	c.pdf.SetFont("Helvetica", "", size)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	w := c.pdf.GetStringWidth(t.Text)
	x, y := at[0]+t.OffsetX*c.k, at[1]+t.OffsetY*c.k
	switch t.Align {
	case "left":
	case "right":
		x -= w
	default:
		x -= w / 2
	}
	switch t.Baseline {
	case "top":
		y += size * 0.8
	case "bottom":
	default:
		y += size * 0.35
	}
	if t.Rotation != 0 {
		c.pdf.TransformBegin()
		c.pdf.TransformRotate(-degrees(t.Rotation), at[0], at[1])
		defer c.pdf.TransformEnd()
	}
	c.pdf.Text(x, y, t.Text)
}

// Legend writes a PDF with one row per entry: a swatch and the entry name.
func Legend(outPath string, entries []LegendEntry, opt LegendOptions) error {
	swatch := opt.Swatch
	if swatch <= 0 {
		swatch = 24
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 36
	}
	pw, ph := opt.Preview.size()
	k := swatch / float64(max(pw, ph))
	row := swatch + 8

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 595, Ht: 842},
	})
	title := opt.Title
	if title == "" {
		title = "Style legend"
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor("mapstyle", false)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, margin, title)
	y := margin + 16

	c := &pdfCanvas{pdf: pdf, k: k}
	for _, e := range entries {
		if e.Element == nil {
			continue
		}
		if y+row > 842-margin {
			pdf.AddPage()
			y = margin
		}
		kind := e.Kind
		if kind == "" {
			kind = KindFor(e.Element)
		}
		prims, f := Primitives(e.Element, kind, opt.Preview)
		draw(c, prims, f, frame{ox: margin, oy: y, k: k, h: float64(ph)})
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(margin+swatch+12, y+swatch/2+3.5, e.Name)
		y += row
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
