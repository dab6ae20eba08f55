/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import "strings"

// Kind names a family of styles that share one definition layout.
type Kind string

const (
	KindFill      Kind = "fill"
	KindPoint     Kind = "point"
	KindLine      Kind = "line"
	KindText      Kind = "text"
	KindComposite Kind = "composite"
)

// Element is anything a composite Style can hold.
type Element interface {
	Kind() Kind
	// Render returns the memoized rendering for view.
	Render(view View) Rendering
	// LookupProps lists feature properties the rendering reads.
	LookupProps() []string
	// TextProps lists feature properties used as label text.
	TextProps() []string
}

// Definition is an Element with a persisted form.
type Definition interface {
	Element
	DefStr() string
}

// SimpleStyle is one of FillStyle, IconStyle, SymbolStyle, LineStyle or TextStyle.
// The With* methods return modified copies; styles are not changed after construction.
type SimpleStyle interface {
	Definition
	Clone() SimpleStyle
	WithOpacity(opacity float64) SimpleStyle
	WithOrientationProp(prop string) SimpleStyle
	WithMinArrowLength(px float64) SimpleStyle
}

// opacityOf returns the opacity a style was built with.
func opacityOf(s SimpleStyle) float64 {
	switch v := s.(type) {
	case *FillStyle:
		return v.Opacity
	case *IconStyle:
		return v.Opacity
	case *SymbolStyle:
		return v.Opacity
	case *LineStyle:
		return v.Opacity
	case *TextStyle:
		return v.Opacity
	}
	return 1
}

func props(names ...string) []string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// mergeProps appends names not yet present, keeping first-seen order.
func mergeProps(dst []string, src ...string) []string {
	for _, s := range src {
		seen := false
		for _, d := range dst {
			if d == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}

// ParseKind normalizes a kind name. "icon" and "symbol" are accepted as point kinds.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFill, "polygon":
		return KindFill, true
	case KindPoint, "icon", "symbol":
		return KindPoint, true
	case KindLine:
		return KindLine, true
	case KindText, "label":
		return KindText, true
	}
	return "", false
}
