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
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by Parse for kinds other than fill, point, icon, symbol, line and text.
var ErrUnknownKind = errors.New("unknown style kind")

// ParserFor returns the plain definition parser of a kind. "icon" and "symbol"
// force the point variant; "point" decides from the first field.
func ParserFor(kind string) (func(string) SimpleStyle, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "fill", "polygon":
		return func(d string) SimpleStyle { return ParseFill(d) }, nil
	case "point":
		return ParsePoint, nil
	case "icon":
		return func(d string) SimpleStyle { return ParseIcon(d) }, nil
	case "symbol":
		return func(d string) SimpleStyle { return ParseSymbol(d) }, nil
	case "line":
		return func(d string) SimpleStyle { return ParseLine(d) }, nil
	case "text", "label":
		return func(d string) SimpleStyle { return ParseText(d) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Parse reads a definition of the given kind. The lookup JSON form is tried
// first; anything that is not a lookup style is parsed as a plain definition.
func Parse(kind, def string) (Definition, error) {
	parse, err := ParserFor(kind)
	if err != nil {
		return nil, err
	}
	if l, err := ParseLookup(def, parse); err == nil {
		return l, nil
	}
	return parse(def), nil
}
