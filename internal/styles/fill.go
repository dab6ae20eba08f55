/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

// FillStyle paints polygons with a single color.
// Definition: color:opacity, opacity in percent (default 100).
type FillStyle struct {
	Color   string
	Opacity float64 // 0..1

	cell renderCell
}

func NewFillStyle(color string, opacity float64) *FillStyle {
	return &FillStyle{Color: color, Opacity: opacity}
}

func ParseFill(def string) *FillStyle {
	p := NewDefParser(def)
	s := &FillStyle{}
	s.Color = p.String("")
	s.Opacity = p.Float(100) / 100
	return s
}

func (s *FillStyle) Kind() Kind { return KindFill }

func (s *FillStyle) DefStr() string {
	w := &defWriter{}
	return w.str(s.Color).float(s.Opacity * 100).String()
}

func (s *FillStyle) Render(View) Rendering {
	return s.cell.get(func() Rendering {
		p := &Primitive{}
		if c, ok := rgbaColor(s.Color, s.Opacity); ok {
			p.Fill = &Fill{Color: c}
		}
		return Rendering{Static: []*Primitive{p}}
	})
}

func (s *FillStyle) LookupProps() []string { return nil }
func (s *FillStyle) TextProps() []string   { return nil }

func (s *FillStyle) Clone() SimpleStyle { return NewFillStyle(s.Color, s.Opacity) }

func (s *FillStyle) WithOpacity(opacity float64) SimpleStyle {
	return NewFillStyle(s.Color, opacity)
}

func (s *FillStyle) WithOrientationProp(string) SimpleStyle { return s.Clone() }
func (s *FillStyle) WithMinArrowLength(float64) SimpleStyle { return s.Clone() }
