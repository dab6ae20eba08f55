/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import "reflect"

// Style is an ordered list of styles drawn on top of each other, later ones last.
// Nested Styles are spliced in, so a Style never holds another Style.
type Style struct {
	elements []Element
	// the elements as configured; opacity is applied to these so it never compounds
	orig []Element
}

// NewStyle flattens els into a new Style; nil elements are skipped.
func NewStyle(els ...Element) *Style {
	s := &Style{}
	s.Add(els...)
	return s
}

// Add appends els to s in place and returns s.
func (s *Style) Add(els ...Element) *Style {
	for _, el := range els {
		if isNilElement(el) {
			continue
		}
		if inner, ok := el.(*Style); ok {
			s.elements = append(s.elements, inner.elements...)
			s.orig = append(s.orig, inner.origin()...)
			continue
		}
		s.elements = append(s.elements, el)
		s.orig = append(s.orig, el)
	}
	return s
}

// Plus returns a new Style with other appended; s is unchanged.
func (s *Style) Plus(other ...Element) *Style {
	return NewStyle(s).Add(other...)
}

// Elements returns a copy of the flattened element list.
func (s *Style) Elements() []Element {
	return append([]Element(nil), s.elements...)
}

func (s *Style) Len() int { return len(s.elements) }

func (s *Style) Kind() Kind { return KindComposite }

// Render concatenates the element renderings in order.
func (s *Style) Render(view View) Rendering {
	var r Rendering
	for _, el := range s.elements {
		r = Concat(r, el.Render(view))
	}
	return r
}

func (s *Style) LookupProps() []string {
	var out []string
	for _, el := range s.elements {
		out = mergeProps(out, el.LookupProps()...)
	}
	return out
}

func (s *Style) TextProps() []string {
	var out []string
	for _, el := range s.elements {
		out = mergeProps(out, el.TextProps()...)
	}
	return out
}

// origin returns the configured elements, parallel to s.elements.
func (s *Style) origin() []Element {
	if len(s.orig) == len(s.elements) {
		return s.orig
	}
	return s.elements
}

// WithOpacity returns a copy whose elements are drawn at their configured
// opacity times opacity.
func (s *Style) WithOpacity(opacity float64) *Style {
	orig := s.origin()
	out := &Style{elements: make([]Element, 0, len(orig)), orig: orig}
	for _, el := range orig {
		switch v := el.(type) {
		case SimpleStyle:
			out.elements = append(out.elements, v.WithOpacity(opacityOf(v)*opacity))
		case *LookupStyle:
			out.elements = append(out.elements, v.WithOpacity(opacity))
		default:
			out.elements = append(out.elements, el)
		}
	}
	return out
}

// WithMinArrowLength returns a copy whose line styles use px as minimum arrow length.
func (s *Style) WithMinArrowLength(px float64) *Style {
	apply := func(el Element) Element {
		switch v := el.(type) {
		case SimpleStyle:
			return v.WithMinArrowLength(px)
		case *LookupStyle:
			return v.WithMinArrowLength(px)
		}
		return el
	}
	orig := s.origin()
	out := &Style{elements: make([]Element, 0, len(s.elements)), orig: make([]Element, 0, len(orig))}
	for _, el := range s.elements {
		out.elements = append(out.elements, apply(el))
	}
	for _, el := range orig {
		out.orig = append(out.orig, apply(el))
	}
	return out
}

func isNilElement(el Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
