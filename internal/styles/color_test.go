/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"image/color"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"red", color.NRGBA{R: 255, A: 255}},
		{" Navy ", color.NRGBA{B: 128, A: 255}},
		{"#0f08", color.NRGBA{G: 255, A: 136}},
		{"#102030", color.NRGBA{R: 16, G: 32, B: 48, A: 255}},
		{"rgba(10, 20, 30, 0.5)", color.NRGBA{R: 10, G: 20, B: 30, A: 128}},
		{"rgb(300,0,0)", color.NRGBA{R: 255, A: 255}},
	}
	for _, c := range cases {
		got, ok := ParseColor(c.in)
		if !ok || got != c.want {
			t.Fatalf("%q: got %v %v want %v", c.in, got, ok, c.want)
		}
	}
	for _, bad := range []string{"", "nope", "#12345", "rgb(1,2)"} {
		if _, ok := ParseColor(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestRGBAColorAppliesOpacity(t *testing.T) {
	c, ok := rgbaColor("blue", 0.5)
	if !ok || c.A != 128 {
		t.Fatalf("got %v", c)
	}
	if s := CSS(c); s != "rgba(0,0,255,0.502)" {
		t.Fatalf("css = %q", s)
	}
	if s := CSS(color.NRGBA{R: 255, A: 255}); s != "#ff0000" {
		t.Fatalf("css = %q", s)
	}
}

func TestMapViewZoom(t *testing.T) {
	v := NewMapView(EPSG3857, 256)
	if z := v.ZoomForResolution(zoom0Resolution); math.Abs(z) > 1e-9 {
		t.Fatalf("zoom = %v", z)
	}
	// 512px tiles halve the zoom 0 resolution, so 256px zoom 0 is zoom -1
	if z := NewMapView(EPSG3857, 512).ZoomForResolution(zoom0Resolution); math.Abs(z+1) > 1e-9 {
		t.Fatalf("512px tiles zoom = %v", z)
	}
	for _, z := range []float64{3, 12.5, 18} {
		if got := v.ZoomForResolution(v.ResolutionForZoom(z)); math.Abs(got-z) > 1e-9 {
			t.Fatalf("zoom %v round trip = %v", z, got)
		}
	}
}

func TestMapViewGeographic(t *testing.T) {
	v := NewMapView("epsg:4326", 256)
	if v.Projection() != EPSG4326 {
		t.Fatalf("projection = %q", v.Projection())
	}
	p := orb.Point{8.2, 53.1}
	back := v.FromMetric(v.ToMetric(p))
	if math.Abs(back[0]-p[0]) > 1e-9 || math.Abs(back[1]-p[1]) > 1e-9 {
		t.Fatalf("round trip = %v", back)
	}
	if z := v.ZoomForResolution(v.ResolutionForZoom(10)); math.Abs(z-10) > 1e-9 {
		t.Fatalf("zoom = %v", z)
	}
	if NewMapView("EPSG:25832", 0).Projection() != EPSG3857 {
		t.Fatalf("unknown projections fall back to EPSG:3857")
	}
}

func TestMetersToPixelsGrowsWithLatitude(t *testing.T) {
	v := NewMapView(EPSG3857, 256)
	eq := metersToPixels(v, 100, orb.Point{0, 0}, 1)
	if math.Abs(eq-100) > 1e-6 {
		t.Fatalf("equator = %v", eq)
	}
	at60 := metersToPixels(v, 100, NewMapView(EPSG4326, 256).ToMetric(orb.Point{0, 60}), 1)
	if math.Abs(at60-200) > 1e-6 {
		t.Fatalf("60N = %v, want 200", at60)
	}
}
