/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"strconv"
	"strings"

	"mapstyle/internal/styles"
)

// describe prints one primitive as a single line of key=value pairs.
func describe(p *styles.Primitive) string {
	var parts []string
	if p.Fill != nil {
		parts = append(parts, "fill="+styles.CSS(p.Fill.Color))
	}
	if p.Stroke != nil {
		parts = append(parts, strokeString("stroke", p.Stroke))
	}
	switch img := p.Image.(type) {
	case *styles.Circle:
		s := "circle r=" + num(img.Radius)
		if img.Fill != nil {
			s += " fill=" + styles.CSS(img.Fill.Color)
		}
		if img.Stroke != nil {
			s += " " + strokeString("stroke", img.Stroke)
		}
		parts = append(parts, s)
	case *styles.Icon:
		parts = append(parts, fmt.Sprintf("icon=%s scale=%s rotation=%s", img.URL, num(img.Scale), num(img.Rotation)))
	}
	if t := p.Text; t != nil {
		s := fmt.Sprintf("text=%q size=%spt align=%s baseline=%s", t.Text, num(t.Font.SizePt), t.Align, t.Baseline)
		if t.Fill != nil {
			s += " color=" + styles.CSS(t.Fill.Color)
		}
		parts = append(parts, s)
	}
	if p.Geometry != nil {
		parts = append(parts, "geometry="+p.Geometry.GeoJSONType())
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}

func strokeString(key string, s *styles.Stroke) string {
	out := key + "=" + styles.CSS(s.Color) + " width=" + num(s.Width)
	if len(s.Dash) > 0 {
		d := make([]string, len(s.Dash))
		for i, v := range s.Dash {
			d[i] = num(v)
		}
		out += " dash=" + strings.Join(d, ",")
	}
	return out
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
