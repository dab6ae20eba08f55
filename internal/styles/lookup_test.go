/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import (
	"errors"
	"strings"
	"testing"
)

func fillParser(d string) SimpleStyle { return ParseFill(d) }

const kindLookup = `{"lookupProp":"kind","pickList":"kinds","defaultStyle":"grey:50","lookup":{"A":"red:80"}}`

func TestLookupFallback(t *testing.T) {
	l, err := ParseLookup(kindLookup, fillParser)
	if err != nil {
		t.Fatalf("ParseLookup: %v", err)
	}
	styleA, styleD := l.Lookup["A"], l.Default
	if got := l.StyleFor(pointFeature(0, 0, map[string]any{"kind": "B"})); got != styleD {
		t.Fatalf("value B should fall back to the default")
	}
	if got := l.StyleFor(pointFeature(0, 0, map[string]any{"kind": "A"})); got != styleA {
		t.Fatalf("value A should select its entry")
	}
	if got := l.StyleFor(pointFeature(0, 0, nil)); got != styleD {
		t.Fatalf("absent value should fall back to the default")
	}
}

func TestLookupRenderPerValue(t *testing.T) {
	l, _ := ParseLookup(kindLookup, fillParser)
	r := l.Render(webView)
	a := r.Resolve(pointFeature(0, 0, map[string]any{"kind": "A"}), 1)
	b := r.Resolve(pointFeature(0, 0, map[string]any{"kind": "other"}), 1)
	if a[0].Fill.Color.R != 255 || b[0].Fill.Color.R != 128 {
		t.Fatalf("unexpected colors %v %v", a[0].Fill.Color, b[0].Fill.Color)
	}
	again := r.Resolve(pointFeature(1, 1, map[string]any{"kind": "A"}), 1)
	if again[0] != a[0] {
		t.Fatalf("rendering for a value should be cached")
	}
	if len(l.byValue) != 1 {
		t.Fatalf("cache entries = %d", len(l.byValue))
	}
}

func TestLookupOpacityIsIdempotent(t *testing.T) {
	l, _ := ParseLookup(kindLookup, fillParser)
	once := l.WithOpacity(0.5)
	twice := once.WithOpacity(0.5)
	for _, tree := range []*LookupStyle{once, twice} {
		if got := tree.Default.(*FillStyle).Opacity; got != 0.25 {
			t.Fatalf("default opacity = %v, want 0.25", got)
		}
		if got := tree.Lookup["A"].(*FillStyle).Opacity; got != 0.4 {
			t.Fatalf("entry opacity = %v, want 0.4", got)
		}
	}
	if l.Default.(*FillStyle).Opacity != 0.5 {
		t.Fatalf("original tree changed")
	}
}

func TestLookupOrientationKeepsOpacityBase(t *testing.T) {
	l, _ := ParseLookup(`{"lookupProp":"k","defaultStyle":"triangle:red:10","lookup":{"x":"/i/x.png"}}`, ParsePoint)
	r := l.WithOpacity(0.5).WithOrientationProp("heading").WithOpacity(0.5)
	sym := r.Default.(*SymbolStyle)
	if sym.OrientationProp != "heading" || sym.Opacity != 0.5 {
		t.Fatalf("unexpected default %+v", sym)
	}
	if lp := r.LookupProps(); len(lp) != 2 || lp[0] != "k" || lp[1] != "heading" {
		t.Fatalf("lookup props = %v", lp)
	}
}

func TestLookupErrors(t *testing.T) {
	if _, err := ParseLookup("red:50", fillParser); !errors.Is(err, ErrNotLookup) {
		t.Fatalf("plain string: %v", err)
	}
	if _, err := ParseLookup(`{"lookup": `, fillParser); !errors.Is(err, ErrNotLookup) {
		t.Fatalf("broken json: %v", err)
	}
	if _, err := ParseLookup(`{"lookup":{"A":"red"}}`, fillParser); !errors.Is(err, ErrMissingLookupProp) {
		t.Fatalf("missing lookupProp: %v", err)
	}
	if _, err := ParseLookup(`{"lookupProp":"k","lookup":{"A":5}}`, fillParser); !errors.Is(err, ErrNotLookup) {
		t.Fatalf("schema violation: %v", err)
	}
}

func TestLookupMixedKindsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mixed kinds")
		}
	}()
	NewLookupStyle("k", ParseFill("red"), map[string]SimpleStyle{"A": ParseLine("red:2")})
}

func TestLookupDefStrRoundTrip(t *testing.T) {
	l, _ := ParseLookup(kindLookup, fillParser)
	d1 := l.DefStr()
	if !strings.Contains(d1, `"lookupProp":"kind"`) || !strings.Contains(d1, `"A":"red:80"`) {
		t.Fatalf("unexpected json %s", d1)
	}
	l2, err := ParseLookup(d1, fillParser)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if d2 := l2.DefStr(); d2 != d1 {
		t.Fatalf("not idempotent:\n%s\n%s", d1, d2)
	}
}

func TestParseTriesLookupFirst(t *testing.T) {
	d, err := Parse("fill", kindLookup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := d.(*LookupStyle); !ok {
		t.Fatalf("expected lookup style, got %T", d)
	}
	d, _ = Parse("fill", "red:50")
	if _, ok := d.(*FillStyle); !ok {
		t.Fatalf("expected fill style, got %T", d)
	}
	if _, err := Parse("raster", "x"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind: %v", err)
	}
}

func TestWithMinTextSizeReachesInnerTextStyles(t *testing.T) {
	def := `{"lookupProp":"rank","defaultStyle":"name:black:10m","lookup":{"1":"name:red:20m"}}`
	l, err := ParseLookup(def, func(d string) SimpleStyle { return ParseText(d) })
	if err != nil {
		t.Fatalf("ParseLookup: %v", err)
	}
	m := l.WithMinTextSize(9)
	if m.Default.(*TextStyle).MinSize != 9 || m.Lookup["1"].(*TextStyle).MinSize != 9 {
		t.Fatalf("min size not applied to inner styles")
	}
	if l.Default.(*TextStyle).MinSize != DefaultMinTextSize {
		t.Fatalf("original tree was modified")
	}
	// non-text lookups are copied unchanged
	f, _ := ParseLookup(kindLookup, fillParser)
	if got := f.WithMinTextSize(9).DefStr(); got != f.DefStr() {
		t.Fatalf("fill lookup changed: %s", got)
	}
}

func TestLookupNilEntryFallsBackToDefault(t *testing.T) {
	l := NewLookupStyle("k", ParseFill("red"), map[string]SimpleStyle{"A": nil})
	f := pointFeature(0, 0, map[string]any{"k": "A"})
	if _, ok := l.StyleFor(f).(*FillStyle); !ok {
		t.Fatalf("StyleFor should return the default")
	}
	prims := l.Render(webView).Resolve(f, 1)
	if len(prims) != 1 || prims[0].Fill == nil || prims[0].Fill.Color.R != 255 {
		t.Fatalf("nil entry should render the default, got %+v", prims)
	}
}
