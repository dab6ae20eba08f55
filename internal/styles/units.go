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

	"mapstyle/internal/geom"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Unit is the unit token of a unit_value field.
type Unit string

const (
	Pixels  Unit = "px"
	Meters  Unit = "m"
	Points  Unit = "pt"
	Percent Unit = "%"
)

// Measure is a number with a unit. An empty Unit means "class default".
type Measure struct {
	Value float64
	Unit  Unit
}

// UnitOr returns the unit or def when none was given.
func (m Measure) UnitOr(def Unit) Unit {
	if m.Unit == "" {
		return def
	}
	return m.Unit
}

func px(v float64) *Measure { return &Measure{Value: v, Unit: Pixels} }

func roundTo(v float64, places int) float64 { return geom.FloatRound(v, places) }

// groundScale is 1/cos(latitude) at a point of the metric projection: the number
// of projected meters per real meter there.
func groundScale(metric orb.Point) float64 {
	lat := project.Mercator.ToWGS84(metric)[1]
	c := math.Cos(lat * math.Pi / 180)
	if c < 1e-9 {
		return 1e9
	}
	return 1 / c
}

// metersToPixels converts real ground meters at a metric point into screen pixels.
func metersToPixels(view View, meters float64, metric orb.Point, res float64) float64 {
	mr := view.MetricResolution(res)
	if mr <= 0 {
		return 0
	}
	return meters * groundScale(metric) / mr
}

// toMetricLength converts a measure into projected meters at a metric point.
// Pixel and point sizes go through the metric resolution.
func toMetricLength(view View, m Measure, metric orb.Point, res float64) float64 {
	switch m.UnitOr(Pixels) {
	case Meters:
		return m.Value * groundScale(metric)
	case Points:
		return m.Value * 4 / 3 * view.MetricResolution(res)
	default:
		return m.Value * view.MetricResolution(res)
	}
}

// toPixels converts a measure into screen pixels; meters need a metric point.
func toPixels(view View, m Measure, metric orb.Point, res float64) float64 {
	switch m.UnitOr(Pixels) {
	case Meters:
		return metersToPixels(view, m.Value, metric, res)
	case Points:
		return m.Value * 4 / 3
	default:
		return m.Value
	}
}
