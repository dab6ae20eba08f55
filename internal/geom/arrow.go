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
)

// ArrowOptions controls arrowhead geometry. Units are those of the coordinates
// the arrow is built in (projected meters for map arrows).
type ArrowOptions struct {
	// Length is measured from the base center to the tip.
	Length float64
	// HalfWidth is half the base width; defaults to Length/2.
	HalfWidth float64
}

// Arrowhead builds a closed triangle whose tip is at tip and which points along angle.
func Arrowhead(tip orb.Point, angle float64, opts ArrowOptions) orb.Polygon {
	if opts.HalfWidth <= 0 {
		opts.HalfWidth = opts.Length / 2
	}
	ux, uy := math.Cos(angle), math.Sin(angle)
	// perpendicular for the base chord
	px, py := -uy, ux
	bc := orb.Point{tip[0] - ux*opts.Length, tip[1] - uy*opts.Length}
	bl := orb.Point{bc[0] + px*opts.HalfWidth, bc[1] + py*opts.HalfWidth}
	br := orb.Point{bc[0] - px*opts.HalfWidth, bc[1] - py*opts.HalfWidth}
	return orb.Polygon{orb.Ring{tip, bl, br, tip}}
}

// CenteredArrowhead builds an arrowhead whose base-to-tip midpoint sits on center.
func CenteredArrowhead(center orb.Point, angle float64, opts ArrowOptions) orb.Polygon {
	half := opts.Length / 2
	tip := orb.Point{center[0] + math.Cos(angle)*half, center[1] + math.Sin(angle)*half}
	return Arrowhead(tip, angle, opts)
}

// DirectionArrowCenters returns the distances along a line of length total at which
// repeated direction arrows are centered. Lines shorter than half a step get none,
// lines shorter than a step get a single centered arrow, longer lines get one arrow
// in the middle of every full step.
func DirectionArrowCenters(total, step float64) []float64 {
	if step <= 0 || total < step/2 {
		return nil
	}
	if total < step {
		return []float64{total / 2}
	}
	n := int(total / step)
	// spread the remainder evenly at both ends
	offset := (total - float64(n)*step) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = offset + step/2 + float64(i)*step
	}
	return out
}
