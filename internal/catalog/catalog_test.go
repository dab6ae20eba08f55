/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapstyle/internal/styles"
)

const sample = `
styles:
  roads: {kind: line, def: "#808080:2px:dash"}
  parks: {kind: fill, def: "green:40"}
  names: {kind: text, def: "name:black:12m"}
layers:
  streets:
    roads: {kind: line, def: "red:3px"}
  pois:
    marker: {kind: point, def: "circle:blue:8"}
`

func mustParse(t *testing.T, s string) *Catalog {
	t.Helper()
	c, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return c
}

func TestResolvePrecedence(t *testing.T) {
	c := mustParse(t, sample)
	if e, ok := c.Resolve("streets", "roads"); !ok || e.Def != "red:3px" {
		t.Fatalf("layer override not used: %#v %v", e, ok)
	}
	if e, ok := c.Resolve("pois", "roads"); !ok || e.Def != "#808080:2px:dash" {
		t.Fatalf("global fallback not used: %#v %v", e, ok)
	}
	if e, ok := c.Resolve("", "roads"); !ok || e.Def != "#808080:2px:dash" {
		t.Fatalf("empty layer should resolve globally: %#v", e)
	}
	if _, ok := c.Resolve("", "marker"); ok {
		t.Fatalf("layer-only style must not resolve globally")
	}
	if _, ok := (*Catalog)(nil).Resolve("x", "y"); ok {
		t.Fatalf("nil catalog resolved a style")
	}
}

func TestNamesSorted(t *testing.T) {
	c := mustParse(t, sample)
	got := strings.Join(c.Names(), ",")
	if got != "marker,names,parks,roads" {
		t.Fatalf("Names() = %s", got)
	}
	if got := strings.Join(c.LayerNames(), ","); got != "pois,streets" {
		t.Fatalf("LayerNames() = %s", got)
	}
}

func TestWithLayerDoesNotMutate(t *testing.T) {
	c := mustParse(t, sample)
	d := c.WithLayer("water", map[string]Entry{"parks": {Kind: "fill", Def: "blue"}})
	if e, _ := d.Resolve("water", "parks"); e.Def != "blue" {
		t.Fatalf("override missing: %#v", e)
	}
	if _, ok := c.Layers["water"]; ok {
		t.Fatalf("original catalog was modified")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	c := mustParse(t, "")
	if c.Styles == nil || c.Layers == nil || len(c.Names()) != 0 {
		t.Fatalf("empty document should give empty scopes: %#v", c)
	}
	if _, err := Parse([]byte("styles: [broken")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := mustParse(t, sample)
	p := filepath.Join(t.TempDir(), "sub", "catalog.yaml")
	if err := c.Save(p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if e, _ := got.Resolve("streets", "roads"); e.Kind != "line" || e.Def != "red:3px" {
		t.Fatalf("round trip lost layer entry: %#v", e)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestBuildOrderAndThresholds(t *testing.T) {
	c := mustParse(t, sample)
	built, problems := c.Build(BuildOptions{MinArrowLength: 12, MinTextSize: 6})
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	var order []string
	for _, b := range built {
		order = append(order, b.Layer+"/"+b.Name)
	}
	if got := strings.Join(order, ","); got != "/names,/parks,/roads,pois/marker,streets/roads" {
		t.Fatalf("build order = %s", got)
	}
	for _, b := range built {
		switch s := b.Element.(type) {
		case *styles.LineStyle:
			if s.MinArrowLength != 12 {
				t.Fatalf("%s: min arrow length = %v", b.Name, s.MinArrowLength)
			}
		case *styles.TextStyle:
			if s.MinSize != 6 {
				t.Fatalf("%s: min text size = %v", b.Name, s.MinSize)
			}
		}
	}
}

func TestBuildKeepsDefaultsWithZeroOptions(t *testing.T) {
	c := mustParse(t, sample)
	built, _ := c.Build(BuildOptions{})
	for _, b := range built {
		if s, ok := b.Element.(*styles.LineStyle); ok && s.MinArrowLength != styles.DefaultMinArrowLength {
			t.Fatalf("zero option overrode default: %v", s.MinArrowLength)
		}
	}
}

func TestBuildReportsProblems(t *testing.T) {
	c := mustParse(t, `
styles:
  ok: {kind: fill, def: red}
  empty: {kind: fill, def: "  "}
  weird: {kind: hatch, def: red}
  star: {kind: symbol, def: "star:red:10"}
  brokenLookup: {kind: fill, def: "{\"pickList\": []}"}
  badInner: {kind: symbol, def: "{\"lookupProp\": \"type\", \"defaultStyle\": \"circle:red\", \"lookup\": {\"a\": \"blob:red\"}}"}
`)
	built, problems := c.Build(BuildOptions{})
	if len(built) != 1 || built[0].Name != "ok" {
		t.Fatalf("only the valid entry should be built: %#v", built)
	}
	got := map[string]string{}
	for _, p := range problems {
		got[p.Name] = p.String()
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 problems, got %v", problems)
	}
	if !strings.Contains(got["weird"], "unknown style kind") {
		t.Fatalf("kind problem = %q", got["weird"])
	}
	if !strings.Contains(got["star"], `unknown symbol "star"`) {
		t.Fatalf("symbol problem = %q", got["star"])
	}
	if !strings.Contains(got["brokenLookup"], "lookup definition") {
		t.Fatalf("lookup problem = %q", got["brokenLookup"])
	}
	if !strings.Contains(got["badInner"], `lookup "a"`) {
		t.Fatalf("inner lookup problem = %q", got["badInner"])
	}
}

func TestBuildAppliesThresholdsInsideLookups(t *testing.T) {
	c := mustParse(t, `
styles:
  labels: {kind: text, def: "{\"lookupProp\": \"size\", \"defaultStyle\": \"name:black:10m\", \"lookup\": {\"big\": \"name:black:20m\"}}"}
`)
	built, problems := c.Build(BuildOptions{MinTextSize: 7})
	if len(problems) != 0 || len(built) != 1 {
		t.Fatalf("unexpected result: %v %v", built, problems)
	}
	lk, ok := built[0].Element.(*styles.LookupStyle)
	if !ok {
		t.Fatalf("expected lookup style, got %T", built[0].Element)
	}
	if lk.Default.(*styles.TextStyle).MinSize != 7 || lk.Lookup["big"].(*styles.TextStyle).MinSize != 7 {
		t.Fatalf("min text size not propagated into lookup")
	}
}

func TestProblemString(t *testing.T) {
	if s := (Problem{Name: "a", Message: "bad"}).String(); s != "a: bad" {
		t.Fatalf("global problem = %q", s)
	}
	if s := (Problem{Layer: "l", Name: "a", Message: "bad"}).String(); s != "l/a: bad" {
		t.Fatalf("layer problem = %q", s)
	}
}

func TestApplyLeavesOtherKindsAlone(t *testing.T) {
	fill := styles.ParseFill("red")
	if got := Apply(fill, BuildOptions{MinArrowLength: 3, MinTextSize: 3}); got != styles.Definition(fill) {
		t.Fatalf("fill style should pass through unchanged")
	}
	line := styles.ParseLine("red:2px")
	if got := Apply(line, BuildOptions{}); got != styles.Definition(line) {
		t.Fatalf("zero options should not copy the style")
	}
}
