/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package styles turns compact style definition strings into typed styles and
// builds the drawing primitives a map renderer consumes for each feature.
//
// A definition is a colon separated list of positional fields, one layout per
// kind (fill, point, line, text). Missing trailing fields take their default, so
// strings written by older releases keep parsing. Lookup styles use a JSON form
// instead and select an inner style per feature property value.
package styles

import (
	"regexp"
	"strconv"
	"strings"
)

// DefParser walks the fields of a definition string. Each getter consumes one
// field; reading past the last field returns the default.
type DefParser struct {
	fields []string
	pos    int
}

func NewDefParser(def string) *DefParser {
	return &DefParser{fields: strings.Split(def, ":")}
}

func (p *DefParser) next() (string, bool) {
	if p.pos >= len(p.fields) {
		return "", false
	}
	f := p.fields[p.pos]
	p.pos++
	return f, f != ""
}

// String returns the raw field or def when it is absent or empty.
func (p *DefParser) String(def string) string {
	if f, ok := p.next(); ok {
		return f
	}
	return def
}

// Int parses the field as an integer. Absent, empty or unparseable fields yield def.
func (p *DefParser) Int(def int) int {
	if v := p.OptInt(); v != nil {
		return *v
	}
	return def
}

// OptInt is Int without a default: nil means the field was not given.
func (p *DefParser) OptInt() *int {
	f, ok := p.next()
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(f))
	if err != nil {
		// tolerate "12.0" written by float formatting
		fv, ferr := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if ferr != nil {
			return nil
		}
		n = int(fv)
	}
	return &n
}

// Float parses the field as a float. Absent, empty or unparseable fields yield def.
func (p *DefParser) Float(def float64) float64 {
	f, ok := p.next()
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
	if err != nil {
		return def
	}
	return v
}

var unitValueRe = regexp.MustCompile(`^\s*(-?(?:\d+(?:\.\d*)?|\.\d+))\s*([a-zA-Z%]*)\s*$`)

// UnitValue parses "12.5m" style fields. An absent or empty field returns def;
// a garbled one returns nil. The unit is empty when the field carries none, and
// the caller substitutes its class default.
func (p *DefParser) UnitValue(def *Measure) *Measure {
	f, ok := p.next()
	if !ok {
		return def
	}
	return parseMeasure(f)
}

func parseMeasure(s string) *Measure {
	m := unitValueRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &Measure{Value: v, Unit: Unit(strings.ToLower(m[2]))}
}

// AlignOffset splits "bottom+5" into ("bottom", 5). The sign that starts the
// offset must follow at least one character, so "-5" alone is an alignment
// token, not an offset. Absent fields yield (def, 0).
func (p *DefParser) AlignOffset(def string) (string, float64) {
	f, ok := p.next()
	if !ok {
		return def, 0
	}
	return splitAlignOffset(f)
}

func splitAlignOffset(s string) (string, float64) {
	i := strings.IndexAny(s[min(1, len(s)):], "+-")
	if i < 0 {
		return s, 0
	}
	i++
	off, err := strconv.ParseFloat(s[i:], 64)
	if err != nil {
		off = 0
	}
	return s[:i], off
}

// defWriter is the inverse of DefParser: fields are appended positionally.
type defWriter struct {
	fields []string
}

func (w *defWriter) str(s string) *defWriter {
	w.fields = append(w.fields, s)
	return w
}

func (w *defWriter) float(v float64) *defWriter {
	return w.str(formatFloat(v))
}

func (w *defWriter) optInt(v *int) *defWriter {
	if v == nil {
		return w.str("")
	}
	return w.str(strconv.Itoa(*v))
}

// measure omits the unit when it equals the class default.
func (w *defWriter) measure(m *Measure, defUnit Unit) *defWriter {
	if m == nil {
		return w.str("")
	}
	s := formatFloat(m.Value)
	if m.Unit != "" && m.Unit != defUnit {
		s += string(m.Unit)
	}
	return w.str(s)
}

func (w *defWriter) alignOffset(align string, off float64) *defWriter {
	switch {
	case off > 0:
		return w.str(align + "+" + formatFloat(off))
	case off < 0:
		return w.str(align + formatFloat(off))
	}
	return w.str(align)
}

func (w *defWriter) String() string { return strings.Join(w.fields, ":") }

func formatFloat(v float64) string {
	return strconv.FormatFloat(roundTo(v, 6), 'f', -1, 64)
}
