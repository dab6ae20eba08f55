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
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// Symbol outlines on a 0..100 grid, y pointing up, centred on (50,50).
// circle has no outline; it is drawn as a true circle.
var symbolShapes = map[string][]orb.Point{
	"circle":    nil,
	"triangle":  {{50, 100}, {100, 0}, {0, 0}},
	"arrow":     {{50, 100}, {100, 40}, {70, 40}, {70, 0}, {30, 0}, {30, 40}, {0, 40}},
	"square":    {{0, 0}, {100, 0}, {100, 100}, {0, 100}},
	"rectangle": {{0, 25}, {100, 25}, {100, 75}, {0, 75}},
	"cross": {
		{35, 0}, {65, 0}, {65, 35}, {100, 35}, {100, 65}, {65, 65},
		{65, 100}, {35, 100}, {35, 65}, {0, 65}, {0, 35}, {35, 35},
	},
	"x": {
		{0, 15}, {15, 0}, {50, 35}, {85, 0}, {100, 15}, {65, 50},
		{100, 85}, {85, 100}, {50, 65}, {15, 100}, {0, 85}, {35, 50},
	},
	"building": {{0, 0}, {100, 0}, {100, 60}, {50, 100}, {0, 60}},
	"diamond":  {{50, 0}, {100, 50}, {50, 100}, {0, 50}},
	"chevron":  {{0, 0}, {50, 60}, {100, 0}, {100, 40}, {50, 100}, {0, 40}},
}

// SymbolNames lists the supported symbol names, sorted.
func SymbolNames() []string {
	out := make([]string, 0, len(symbolShapes))
	for k := range symbolShapes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsSymbol reports whether name is a built-in symbol (and not an icon URL).
func IsSymbol(name string) bool {
	_, ok := symbolShapes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// symbolRing returns the closed outline of name scaled to size and centred on the origin.
func symbolRing(name string, size float64) (orb.Ring, bool) {
	pts, ok := symbolShapes[name]
	if !ok || pts == nil {
		return nil, false
	}
	k := size / 100
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, orb.Point{(p[0] - 50) * k, (p[1] - 50) * k})
	}
	return append(r, r[0]), true
}

// SymbolPath returns an SVG path of the symbol in a size x size box with y down.
func SymbolPath(name string, size float64) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "circle" {
		r := size / 2
		return fmt.Sprintf("M %s %s A %s %s 0 1 0 %s %s A %s %s 0 1 0 %s %s Z",
			ff(0), ff(r), ff(r), ff(r), ff(size), ff(r), ff(r), ff(r), ff(0), ff(r))
	}
	pts, ok := symbolShapes[name]
	if !ok {
		return ""
	}
	k := size / 100
	var b strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s %s %s ", cmd, ff(p[0]*k), ff((100-p[1])*k))
	}
	b.WriteString("Z")
	return b.String()
}

func ff(v float64) string { return formatFloat(v) }
