/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog holds named style definitions in two scopes: global styles
// and per-layer overrides. Resolution precedence is layer > global.
//
// The on-disk form is YAML:
//
//	styles:
//	  roads: {kind: line, def: "#808080:2px:dash"}
//	layers:
//	  streets:
//	    roads: {kind: line, def: "red:3px"}
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	applog "mapstyle/internal/log"
	"mapstyle/internal/styles"

	"gopkg.in/yaml.v3"
)

// Entry is one persisted style: its kind and its definition string.
type Entry struct {
	Kind string `yaml:"kind"`
	Def  string `yaml:"def"`
}

type Catalog struct {
	Styles map[string]Entry            `yaml:"styles"`
	Layers map[string]map[string]Entry `yaml:"layers,omitempty"`
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{Styles: map[string]Entry{}, Layers: map[string]map[string]Entry{}}
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Parse decodes catalog YAML. Missing sections come back as empty maps.
func Parse(data []byte) (*Catalog, error) {
	c := New()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if c.Styles == nil {
		c.Styles = map[string]Entry{}
	}
	if c.Layers == nil {
		c.Layers = map[string]map[string]Entry{}
	}
	return c, nil
}

// Save writes the catalog as YAML, creating the parent directory if needed.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure catalog dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WithLayer returns a copy with over merged into the layer's scope.
func (c *Catalog) WithLayer(layer string, over map[string]Entry) *Catalog {
	cp := c.clone()
	if cp.Layers[layer] == nil {
		cp.Layers[layer] = map[string]Entry{}
	}
	for k, v := range over {
		cp.Layers[layer][k] = v
	}
	return cp
}

// Resolve returns the effective entry for name as seen from layer.
// An empty layer resolves against the global scope only.
func (c *Catalog) Resolve(layer, name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	if layer != "" {
		if e, ok := c.Layers[layer][name]; ok {
			return e, true
		}
	}
	e, ok := c.Styles[name]
	return e, ok
}

// Names returns every style name known in any scope, sorted.
func (c *Catalog) Names() []string {
	seen := map[string]bool{}
	for k := range c.Styles {
		seen[k] = true
	}
	for _, m := range c.Layers {
		for k := range m {
			seen[k] = true
		}
	}
	return sortedKeys(seen)
}

// LayerNames returns the layer scopes, sorted.
func (c *Catalog) LayerNames() []string { return sortedKeys(c.Layers) }

func (c *Catalog) clone() *Catalog {
	cp := New()
	for k, v := range c.Styles {
		cp.Styles[k] = v
	}
	for l, m := range c.Layers {
		cp.Layers[l] = make(map[string]Entry, len(m))
		for k, v := range m {
			cp.Layers[l][k] = v
		}
	}
	return cp
}

// BuildOptions carries the render thresholds applied to every built element.
// Zero values keep the style defaults.
type BuildOptions struct {
	MinArrowLength float64 // pixels
	MinTextSize    float64 // points
}

// Built is a parsed catalog entry.
type Built struct {
	Layer   string // empty for the global scope
	Name    string
	Element styles.Definition
}

// Problem describes an entry that could not be turned into a usable style.
type Problem struct {
	Layer   string
	Name    string
	Message string
}

func (p Problem) String() string {
	if p.Layer == "" {
		return fmt.Sprintf("%s: %s", p.Name, p.Message)
	}
	return fmt.Sprintf("%s/%s: %s", p.Layer, p.Name, p.Message)
}

// Build parses every entry, global scope first and then each layer in name order.
// Broken entries are reported as problems and left out; the rest are still built.
func (c *Catalog) Build(opts BuildOptions) ([]Built, []Problem) {
	l := applog.WithOperation(applog.WithComponent("catalog"), "build")
	var out []Built
	var problems []Problem
	add := func(layer string, m map[string]Entry) {
		for _, name := range sortedKeys(m) {
			el, err := Element(m[name], opts)
			if err != nil {
				problems = append(problems, Problem{Layer: layer, Name: name, Message: err.Error()})
				continue
			}
			out = append(out, Built{Layer: layer, Name: name, Element: el})
		}
	}
	add("", c.Styles)
	for _, layer := range c.LayerNames() {
		add(layer, c.Layers[layer])
	}
	l.Debug("catalog built", slog.Int("styles", len(out)), slog.Int("problems", len(problems)))
	return out, problems
}

// Element parses a single entry and applies opts. Unlike styles.Parse it does
// not silently fall back to a plain definition when a lookup definition is broken.
func Element(e Entry, opts BuildOptions) (styles.Definition, error) {
	def := strings.TrimSpace(e.Def)
	if def == "" {
		return nil, fmt.Errorf("empty definition")
	}
	parse, err := styles.ParserFor(e.Kind)
	if err != nil {
		return nil, err
	}
	var el styles.Definition
	if strings.HasPrefix(def, "{") {
		lk, err := styles.ParseLookup(def, parse)
		if err != nil {
			return nil, fmt.Errorf("lookup definition: %w", err)
		}
		el = lk
	} else {
		el = parse(def)
	}
	if err := validate(el); err != nil {
		return nil, err
	}
	return Apply(el, opts), nil
}

func validate(el styles.Definition) error {
	switch s := el.(type) {
	case *styles.SymbolStyle:
		if !styles.IsSymbol(s.Symbol) {
			return fmt.Errorf("unknown symbol %q", s.Symbol)
		}
	case *styles.IconStyle:
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("icon without url")
		}
	case *styles.LookupStyle:
		if s.Default != nil {
			if err := validate(s.Default); err != nil {
				return fmt.Errorf("default style: %w", err)
			}
		}
		for k, inner := range s.Lookup {
			if err := validate(inner); err != nil {
				return fmt.Errorf("lookup %q: %w", k, err)
			}
		}
	}
	return nil
}

// Apply returns el with the thresholds of opts set on its line and text styles,
// including those inside a lookup. Zero options leave el unchanged.
func Apply(el styles.Definition, opts BuildOptions) styles.Definition {
	switch s := el.(type) {
	case *styles.LineStyle:
		if opts.MinArrowLength > 0 {
			return s.WithMinArrowLength(opts.MinArrowLength).(*styles.LineStyle)
		}
	case *styles.TextStyle:
		if opts.MinTextSize > 0 {
			return s.WithMinSize(opts.MinTextSize)
		}
	case *styles.LookupStyle:
		if opts.MinArrowLength > 0 {
			s = s.WithMinArrowLength(opts.MinArrowLength)
		}
		if opts.MinTextSize > 0 {
			s = s.WithMinTextSize(opts.MinTextSize)
		}
		return s
	}
	return el
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
