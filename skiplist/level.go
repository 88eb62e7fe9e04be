// Package skiplist
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package skiplist

import (
	"math/rand"
	"sync"
	"time"
)

const MaxHeight = 20 // Upper bound on the level of any node, including the head
const p = 0.5        // Probability of promoting a node one more level

// LevelGenerator draws node levels from a geometric distribution capped at MaxHeight.
// It is seeded once and never reseeded; a single generator may be shared by several lists.
type LevelGenerator struct {
	rng      *rand.Rand // random number generator
	rngMutex sync.Mutex // mutex for the random number generator
}

// NewLevelGenerator creates a level generator with a fixed seed
func NewLevelGenerator(seed int64) *LevelGenerator {
	return &LevelGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// newTimeSeededLevelGenerator creates a level generator seeded from the current time
func newTimeSeededLevelGenerator() *LevelGenerator {
	return NewLevelGenerator(time.Now().UnixNano())
}

// Next returns a level in [1, MaxHeight].
// P(level >= k) = 2^-(k-1), one coin flip per level above 1.
func (g *LevelGenerator) Next() int {
	g.rngMutex.Lock()
	defer g.rngMutex.Unlock()

	lvl := 1
	for lvl < MaxHeight && g.rng.Float64() < p {
		lvl++
	}
	return lvl
}
