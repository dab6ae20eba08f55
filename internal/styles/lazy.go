/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package styles

import "sync"

// renderCell holds the memoized Rendering of a simple style. It is filled by the
// first Render call and never invalidated: a style instance is rendered against
// a single view, and a later call with another view gets the first result.
type renderCell struct {
	mu   sync.Mutex
	done bool
	r    Rendering
}

func (c *renderCell) get(build func() Rendering) Rendering {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.r = build()
		c.done = true
	}
	return c.r
}

// resolved reports whether the cell has been filled.
func (c *renderCell) resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
