/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Length is the planar length of ls in its own units.
func Length(ls orb.LineString) float64 { return planar.Length(ls) }

// Angle returns the direction from a to b in radians, counter-clockwise from +x.
func Angle(a, b orb.Point) float64 { return math.Atan2(b[1]-a[1], b[0]-a[0]) }

// PointAt walks ls and returns the point at distance d from its start together with
// the direction of the segment containing it. d is clamped to [0, Length(ls)].
// Zero-length segments are skipped so the direction is always taken from a real segment.
func PointAt(ls orb.LineString, d float64) (orb.Point, float64) {
	if len(ls) == 0 {
		return orb.Point{}, 0
	}
	if len(ls) == 1 {
		return ls[0], 0
	}
	if d < 0 {
		d = 0
	}
	dir := 0.0
	haveDir := false
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		seg := planar.Distance(a, b)
		if seg == 0 {
			continue
		}
		dir = Angle(a, b)
		haveDir = true
		if d <= seg {
			t := d / seg
			return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}, dir
		}
		d -= seg
	}
	if !haveDir {
		return ls[0], 0
	}
	return ls[len(ls)-1], dir
}

// StartDirection is the direction pointing backwards out of the first real segment of ls.
func StartDirection(ls orb.LineString) float64 {
	for i := 1; i < len(ls); i++ {
		if ls[i] != ls[0] {
			return Angle(ls[i], ls[0])
		}
	}
	return 0
}

// EndDirection is the direction of the last real segment of ls.
func EndDirection(ls orb.LineString) float64 {
	n := len(ls)
	for i := n - 2; i >= 0; i-- {
		if ls[i] != ls[n-1] {
			return Angle(ls[i], ls[n-1])
		}
	}
	return 0
}
