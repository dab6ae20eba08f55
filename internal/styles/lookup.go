/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	applog "mapstyle/internal/log"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrNotLookup means the definition is not lookup JSON; try a plain parser.
	ErrNotLookup = errors.New("not a lookup style definition")
	// ErrMissingLookupProp means lookup JSON without a lookupProp key.
	ErrMissingLookupProp = errors.New("lookup style without lookupProp")
)

const lookupSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["lookupProp"],
  "properties": {
    "lookupProp": {"type": "string", "minLength": 1},
    "pickList": {},
    "defaultStyle": {"type": "string"},
    "lookup": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

var lookupSchemaLoader = gojsonschema.NewStringLoader(lookupSchema)

// lookupJSON is the persisted form of a LookupStyle.
type lookupJSON struct {
	LookupProp   string            `json:"lookupProp"`
	PickList     any               `json:"pickList,omitempty"`
	DefaultStyle string            `json:"defaultStyle"`
	Lookup       map[string]string `json:"lookup"`
}

// LookupStyle selects an inner style by the value of a feature property.
// All inner styles share one Kind.
type LookupStyle struct {
	LookupProp string
	// PickList is informational; editors use it to offer values.
	PickList any
	Default  SimpleStyle
	Lookup   map[string]SimpleStyle

	kind Kind
	// the styles this tree was derived from, so that opacity is always applied
	// to the originally configured value and never compounds
	origDefault SimpleStyle
	origLookup  map[string]SimpleStyle

	mu      sync.Mutex
	byValue map[string]Rendering
	dflt    *Rendering
}

// NewLookupStyle builds a lookup style. It panics when the inner styles are of
// different kinds; that is a programming error, not bad input.
func NewLookupStyle(prop string, def SimpleStyle, lookup map[string]SimpleStyle) *LookupStyle {
	l := &LookupStyle{LookupProp: prop, Default: def, Lookup: make(map[string]SimpleStyle, len(lookup))}
	check := func(s SimpleStyle) {
		if s == nil {
			return
		}
		if l.kind == "" {
			l.kind = s.Kind()
		} else if s.Kind() != l.kind {
			panic(fmt.Sprintf("styles: lookup style mixes %s and %s styles", l.kind, s.Kind()))
		}
	}
	check(def)
	for _, k := range sortedKeys(lookup) {
		check(lookup[k])
		l.Lookup[k] = lookup[k]
	}
	l.origDefault, l.origLookup = l.Default, l.Lookup
	return l
}

// ParseLookup reads the JSON form
//
//	{"lookupProp": "...", "pickList": ..., "defaultStyle": "<def>", "lookup": {"<value>": "<def>"}}
//
// parsing every inner definition with parse. Input that is not JSON fails with
// ErrNotLookup; JSON without lookupProp fails with ErrMissingLookupProp.
func ParseLookup(def string, parse func(string) SimpleStyle) (*LookupStyle, error) {
	def = strings.TrimSpace(def)
	if !strings.HasPrefix(def, "{") {
		return nil, ErrNotLookup
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(def), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLookup, err)
	}
	if p, _ := raw["lookupProp"].(string); p == "" {
		applog.WithComponent("styles").Warn("lookup style has no lookupProp", slog.String("def", def))
		return nil, ErrMissingLookupProp
	}
	res, err := gojsonschema.Validate(lookupSchemaLoader, gojsonschema.NewStringLoader(def))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLookup, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		applog.WithComponent("styles").Warn("lookup style violates schema", slog.String("errors", strings.Join(msgs, "; ")))
		return nil, fmt.Errorf("%w: %s", ErrNotLookup, strings.Join(msgs, "; "))
	}
	var lj lookupJSON
	if err := json.Unmarshal([]byte(def), &lj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLookup, err)
	}
	var dflt SimpleStyle
	if lj.DefaultStyle != "" {
		dflt = parse(lj.DefaultStyle)
	}
	lookup := make(map[string]SimpleStyle, len(lj.Lookup))
	for k, v := range lj.Lookup {
		lookup[k] = parse(v)
	}
	l := NewLookupStyle(lj.LookupProp, dflt, lookup)
	l.PickList = lj.PickList
	return l, nil
}

func (l *LookupStyle) Kind() Kind { return l.kind }

// DefStr re-encodes the JSON form; keys are sorted.
func (l *LookupStyle) DefStr() string {
	lj := lookupJSON{LookupProp: l.LookupProp, PickList: l.PickList, Lookup: make(map[string]string, len(l.Lookup))}
	if l.Default != nil {
		lj.DefaultStyle = l.Default.DefStr()
	}
	for k, v := range l.Lookup {
		lj.Lookup[k] = v.DefStr()
	}
	b, err := json.Marshal(lj)
	if err != nil {
		return ""
	}
	return string(b)
}

// StyleFor returns the style for f's lookupProp value, falling back to Default
// when the value is absent or not in the table.
func (l *LookupStyle) StyleFor(f Feature) SimpleStyle {
	if key, ok := propertyKey(f, l.LookupProp); ok {
		if s, ok := l.Lookup[key]; ok && s != nil {
			return s
		}
	}
	return l.Default
}

// Render returns a per-feature rendering. Inner renderings are cached per
// property value; the key space is the table's value domain so the cache is
// never evicted.
func (l *LookupStyle) Render(view View) Rendering {
	return Rendering{Func: func(f Feature, res float64) []*Primitive {
		r := l.renderingFor(view, f)
		return r.Resolve(f, res)
	}}
}

func (l *LookupStyle) renderingFor(view View, f Feature) Rendering {
	key, ok := propertyKey(f, l.LookupProp)
	if ok {
		if s, hit := l.Lookup[key]; !hit || s == nil {
			ok = false
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !ok {
		if l.dflt == nil {
			r := Rendering{}
			if l.Default != nil {
				r = l.Default.Render(view)
			}
			l.dflt = &r
		}
		return *l.dflt
	}
	if r, hit := l.byValue[key]; hit {
		return r
	}
	if l.byValue == nil {
		l.byValue = make(map[string]Rendering)
	}
	r := l.Lookup[key].Render(view)
	l.byValue[key] = r
	return r
}

func (l *LookupStyle) LookupProps() []string {
	out := props(l.LookupProp)
	for _, s := range l.styles() {
		out = mergeProps(out, s.LookupProps()...)
	}
	return out
}

func (l *LookupStyle) TextProps() []string {
	var out []string
	for _, s := range l.styles() {
		out = mergeProps(out, s.TextProps()...)
	}
	return out
}

// styles returns the default followed by the table entries in key order.
func (l *LookupStyle) styles() []SimpleStyle {
	var out []SimpleStyle
	if l.Default != nil {
		out = append(out, l.Default)
	}
	for _, k := range sortedKeys(l.Lookup) {
		if s := l.Lookup[k]; s != nil {
			out = append(out, s)
		}
	}
	return out
}

func mapStyles(m map[string]SimpleStyle, fn func(SimpleStyle) SimpleStyle) map[string]SimpleStyle {
	out := make(map[string]SimpleStyle, len(m))
	for k, s := range m {
		if s != nil {
			out[k] = fn(s)
		}
	}
	return out
}

func mapStyle(s SimpleStyle, fn func(SimpleStyle) SimpleStyle) SimpleStyle {
	if s == nil {
		return nil
	}
	return fn(s)
}

func (l *LookupStyle) shell() *LookupStyle {
	return &LookupStyle{LookupProp: l.LookupProp, PickList: l.PickList, kind: l.kind}
}

// WithOpacity returns a tree in which every inner style has its original
// opacity multiplied by opacity. Applying it again replaces, not compounds.
func (l *LookupStyle) WithOpacity(opacity float64) *LookupStyle {
	fn := func(s SimpleStyle) SimpleStyle { return s.WithOpacity(opacityOf(s) * opacity) }
	n := l.shell()
	n.origDefault, n.origLookup = l.origDefault, l.origLookup
	n.Default, n.Lookup = mapStyle(l.origDefault, fn), mapStyles(l.origLookup, fn)
	return n
}

// propagate applies fn to both the current and the original styles.
func (l *LookupStyle) propagate(fn func(SimpleStyle) SimpleStyle) *LookupStyle {
	n := l.shell()
	n.Default, n.Lookup = mapStyle(l.Default, fn), mapStyles(l.Lookup, fn)
	n.origDefault, n.origLookup = mapStyle(l.origDefault, fn), mapStyles(l.origLookup, fn)
	return n
}

// WithOrientationProp returns a tree whose inner styles rotate by prop.
func (l *LookupStyle) WithOrientationProp(prop string) *LookupStyle {
	return l.propagate(func(s SimpleStyle) SimpleStyle { return s.WithOrientationProp(prop) })
}

// WithMinArrowLength returns a tree whose inner line styles use px as minimum arrow length.
func (l *LookupStyle) WithMinArrowLength(px float64) *LookupStyle {
	return l.propagate(func(s SimpleStyle) SimpleStyle { return s.WithMinArrowLength(px) })
}

// WithMinTextSize returns a tree whose inner text styles hide ground sized labels below pt points.
func (l *LookupStyle) WithMinTextSize(pt float64) *LookupStyle {
	return l.propagate(func(s SimpleStyle) SimpleStyle {
		if t, ok := s.(*TextStyle); ok {
			return t.WithMinSize(pt)
		}
		return s.Clone()
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
