/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is what styles read per rendered object: flat named properties and a
// geometry in the display projection.
type Feature interface {
	Property(name string) (any, bool)
	Geometry() orb.Geometry
}

// MethodInvoker is implemented by features backed by a domain object. Text
// properties written as "name()" call the named accessor instead of reading a property.
type MethodInvoker interface {
	Invoke(method string) (any, error)
}

// MapFeature is a plain in-memory Feature.
type MapFeature struct {
	Props   map[string]any
	Geom    orb.Geometry
	Methods map[string]func() (any, error)
}

func (f MapFeature) Property(name string) (any, bool) {
	v, ok := f.Props[name]
	return v, ok
}

func (f MapFeature) Geometry() orb.Geometry { return f.Geom }

func (f MapFeature) Invoke(method string) (any, error) {
	fn, ok := f.Methods[method]
	if !ok {
		return nil, fmt.Errorf("no method %q", method)
	}
	return fn()
}

type geojsonFeature struct{ f *geojson.Feature }

// FromGeoJSON adapts an orb GeoJSON feature.
func FromGeoJSON(f *geojson.Feature) Feature { return geojsonFeature{f: f} }

func (g geojsonFeature) Property(name string) (any, bool) {
	if g.f == nil || g.f.Properties == nil {
		return nil, false
	}
	v, ok := g.f.Properties[name]
	return v, ok
}

func (g geojsonFeature) Geometry() orb.Geometry {
	if g.f == nil {
		return nil
	}
	return g.f.Geometry
}

// propertyText resolves a text property. Absent values give "". A "name()" accessor
// on a feature that cannot run it yields the literal property name.
func propertyText(f Feature, name string) string {
	if f == nil || name == "" {
		return ""
	}
	if method, ok := strings.CutSuffix(name, "()"); ok {
		inv, isInv := f.(MethodInvoker)
		if !isInv {
			return name
		}
		v, err := inv.Invoke(method)
		if err != nil {
			return name
		}
		return valueString(v)
	}
	v, ok := f.Property(name)
	if !ok {
		return ""
	}
	return valueString(v)
}

// propertyKey turns a property value into a lookup table key.
func propertyKey(f Feature, name string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.Property(name)
	if !ok || v == nil {
		return "", false
	}
	return valueString(v), true
}

// propertyFloat reads a numeric property; strings are parsed.
func propertyFloat(f Feature, name string) (float64, bool) {
	if f == nil || name == "" {
		return 0, false
	}
	v, ok := f.Property(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return x, err == nil
	}
	return 0, false
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
