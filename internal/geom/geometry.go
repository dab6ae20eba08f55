/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the planar math used to build drawing geometry for styles:
// affine transforms over orb points, projection helpers and line walking.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

// Mul returns m*n, i.e. n is applied first.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p orb.Point) orb.Point {
	return orb.Point{
		m.A*p[0] + m.C*p[1] + m.E,
		m.B*p[0] + m.D*p[1] + m.F,
	}
}

// ApplyRing returns a transformed copy of r.
func (m Affine2D) ApplyRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = m.Apply(p)
	}
	return out
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// Rotate is counter-clockwise in a y-up coordinate system.
func Rotate(rad float64) Affine2D {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// Project returns a projected copy of g; orb/project works in place, so g is cloned first.
func Project(g orb.Geometry, proj orb.Projection) orb.Geometry {
	if g == nil {
		return nil
	}
	return project.Geometry(orb.Clone(g), proj)
}

// Anchor returns the point a point-style is drawn at: the point itself, the first
// point of a multipoint, the midpoint of a line or the bound center otherwise.
func Anchor(g orb.Geometry) (orb.Point, bool) {
	switch v := g.(type) {
	case nil:
		return orb.Point{}, false
	case orb.Point:
		return v, true
	case orb.MultiPoint:
		if len(v) == 0 {
			return orb.Point{}, false
		}
		return v[0], true
	case orb.LineString:
		if len(v) == 0 {
			return orb.Point{}, false
		}
		p, _ := PointAt(v, Length(v)/2)
		return p, true
	default:
		b := g.Bound()
		if b.IsEmpty() {
			return orb.Point{}, false
		}
		return b.Center(), true
	}
}

// Lines flattens g to its line strings; polygon rings are returned as closed lines.
func Lines(g orb.Geometry) []orb.LineString {
	switch v := g.(type) {
	case orb.LineString:
		return []orb.LineString{v}
	case orb.MultiLineString:
		return []orb.LineString(v)
	case orb.Ring:
		return []orb.LineString{orb.LineString(v)}
	case orb.Polygon:
		out := make([]orb.LineString, 0, len(v))
		for _, r := range v {
			out = append(out, orb.LineString(r))
		}
		return out
	case orb.MultiPolygon:
		var out []orb.LineString
		for _, p := range v {
			out = append(out, Lines(p)...)
		}
		return out
	case orb.Collection:
		var out []orb.LineString
		for _, c := range v {
			out = append(out, Lines(c)...)
		}
		return out
	}
	return nil
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
