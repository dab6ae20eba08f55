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
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Display projections a MapView understands.
const (
	EPSG3857 = "EPSG:3857"
	EPSG4326 = "EPSG:4326"
)

// resolution of zoom level 0 for 256px tiles in EPSG:3857 (meters per pixel).
const zoom0Resolution = 156543.03392804097

// degrees to equatorial meters in EPSG:3857
const metersPerDegree = 2 * math.Pi * 6378137 / 360

// View is the rendering context a style is projected against. Feature
// geometries and resolutions are in the display projection; arrows, symbol
// outlines and ground sizes are computed in EPSG:3857 ("metric").
type View interface {
	// ZoomForResolution returns the fractional web map zoom level for res.
	ZoomForResolution(res float64) float64
	ToMetric(p orb.Point) orb.Point
	FromMetric(p orb.Point) orb.Point
	// MetricResolution converts a display resolution into EPSG:3857 meters per pixel.
	MetricResolution(res float64) float64
}

// MapView is the View of a tiled web map.
type MapView struct {
	projection string
	tileSize   int
}

// NewMapView supports EPSG:3857 and EPSG:4326; anything else is treated as EPSG:3857.
func NewMapView(projection string, tileSize int) MapView {
	p := strings.ToUpper(strings.TrimSpace(projection))
	if p != EPSG4326 {
		p = EPSG3857
	}
	if tileSize <= 0 {
		tileSize = 256
	}
	return MapView{projection: p, tileSize: tileSize}
}

// PixelView treats coordinates as pixels at resolution 1 near the equator.
// Previews draw synthetic geometries through it.
var PixelView View = NewMapView(EPSG3857, 256)

func (v MapView) Projection() string { return v.projection }

func (v MapView) maxResolution() float64 {
	ts := v.tileSize
	if ts <= 0 {
		ts = 256
	}
	return zoom0Resolution * 256 / float64(ts)
}

func (v MapView) ZoomForResolution(res float64) float64 {
	mr := v.MetricResolution(res)
	if mr <= 0 {
		return math.Inf(1)
	}
	return math.Log2(v.maxResolution() / mr)
}

// ResolutionForZoom is the inverse of ZoomForResolution.
func (v MapView) ResolutionForZoom(z float64) float64 {
	mr := v.maxResolution() / math.Pow(2, z)
	if v.projection == EPSG4326 {
		return mr / metersPerDegree
	}
	return mr
}

func (v MapView) ToMetric(p orb.Point) orb.Point {
	if v.projection == EPSG4326 {
		return project.WGS84.ToMercator(p)
	}
	return p
}

func (v MapView) FromMetric(p orb.Point) orb.Point {
	if v.projection == EPSG4326 {
		return project.Mercator.ToWGS84(p)
	}
	return p
}

func (v MapView) MetricResolution(res float64) float64 {
	if v.projection == EPSG4326 {
		return res * metersPerDegree
	}
	return res
}
