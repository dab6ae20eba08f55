/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

// ParsePoint picks the point style variant from the first field: a built-in
// symbol name selects SymbolStyle, anything else is taken as an icon URL.
func ParsePoint(def string) SimpleStyle {
	name := NewDefParser(def).String("")
	if name != "" && IsSymbol(name) {
		return ParseSymbol(def)
	}
	return ParseIcon(def)
}
