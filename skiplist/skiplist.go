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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrContractViolation is wrapped by every error caused by a misuse of the API
	ErrContractViolation = errors.New("skiplist: contract violation")
	// ErrAllocation is wrapped by every error raised when a node cannot be added
	ErrAllocation = errors.New("skiplist: allocation failure")

	ErrNilComparator    = fmt.Errorf("%w: comparator cannot be nil", ErrContractViolation)
	ErrNilItem          = fmt.Errorf("%w: item cannot be nil", ErrContractViolation)
	ErrCapacityExceeded = fmt.Errorf("%w: capacity exceeded", ErrAllocation)
)

// Comparator defines a total order over items.
// Returns a negative number if a < b, 0 if a == b, a positive number if a > b.
type Comparator[T any] func(a, b T) int

// SkipList is an ordered multi-level linked list.
// It is not safe for concurrent use; callers that share a list must synchronize.
type SkipList[T any] struct {
	head       *Node[T]        // sentinel spanning MaxHeight levels, never compared
	level      int             // highest level in use, 1 <= level <= MaxHeight
	length     int             // number of items, equal to the bottom chain length
	capacity   int             // maximum number of items, 0 means unlimited
	levels     *LevelGenerator // source of node levels
	comparator Comparator[T]   // user-provided comparator function
}

// Stats describes the shape of a skip list
type Stats struct {
	Len         int   // Number of items
	Level       int   // Highest level in use
	LevelCounts []int // Number of nodes linked at each level, index 0 is the bottom
}

// New creates a new skip list ordered by cmp, with its own time-seeded level generator
func New[T any](cmp Comparator[T]) (*SkipList[T], error) {
	return NewWithLevelGenerator(cmp, nil)
}

// NewWithLevelGenerator creates a new skip list drawing node levels from gen.
// If gen is nil a time-seeded generator is created for the list.
func NewWithLevelGenerator[T any](cmp Comparator[T], gen *LevelGenerator) (*SkipList[T], error) {
	if cmp == nil {
		return nil, ErrNilComparator
	}

	if gen == nil {
		gen = newTimeSeededLevelGenerator()
	}

	var zero T
	sl := &SkipList[T]{
		head:       newNode(zero, MaxHeight),
		level:      1,
		levels:     gen,
		comparator: cmp,
	}

	return sl, nil
}

// SetCapacity limits the number of items the list accepts, n <= 0 removes the limit
func (sl *SkipList[T]) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	sl.capacity = n
}

// Len returns the number of items in the list
func (sl *SkipList[T]) Len() int {
	return sl.length
}

// Level returns the highest level currently in use
func (sl *SkipList[T]) Level() int {
	return sl.level
}

// Insert links item into the list.
// Items equal to existing ones are placed in front of the run of equal items.
func (sl *SkipList[T]) Insert(item T) error {
	if isNil(item) {
		return ErrNilItem
	}

	if sl.capacity > 0 && sl.length >= sl.capacity {
		return ErrCapacityExceeded
	}

	topLevel := sl.levels.Next()
	if topLevel > sl.level {
		sl.level = topLevel
	}

	var update [MaxHeight]*Node[T]
	sl.findPredecessors(item, &update)

	n := newNode(item, topLevel)
	for i := 0; i < topLevel; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}

	sl.length++
	return nil
}

// findPredecessors records, for every level below sl.level, the last node whose item
// is strictly less than item. Levels at or above sl.level are set to the head.
// Returns the predecessor at the bottom level.
func (sl *SkipList[T]) findPredecessors(item T, update *[MaxHeight]*Node[T]) *Node[T] {
	prev := sl.head

	for i := sl.level - 1; i >= 0; i-- {
		for curr := prev.next[i]; curr != nil; curr = prev.next[i] {
			if sl.comparator(curr.item, item) >= 0 {
				break
			}
			prev = curr
		}
		if update != nil {
			update[i] = prev
		}
	}

	if update != nil {
		for i := sl.level; i < MaxHeight; i++ {
			update[i] = sl.head
		}
	}

	return prev
}

// Search reports whether an item equal to item is in the list
func (sl *SkipList[T]) Search(item T) (bool, error) {
	if isNil(item) {
		return false, ErrNilItem
	}

	prev := sl.findPredecessors(item, nil)

	// prev.item < item <= prev.next[0].item
	next := prev.next[0]
	return next != nil && sl.comparator(next.item, item) == 0, nil
}

// Contains is Search without the error, nil items are never contained
func (sl *SkipList[T]) Contains(item T) bool {
	found, err := sl.Search(item)
	return err == nil && found
}

// Seek returns the first item not less than item
func (sl *SkipList[T]) Seek(item T) (T, bool) {
	var zero T
	if isNil(item) {
		return zero, false
	}

	next := sl.findPredecessors(item, nil).next[0]
	if next == nil {
		return zero, false
	}
	return next.item, true
}

// Min returns the smallest item in the list
func (sl *SkipList[T]) Min() (T, bool) {
	first := sl.head.next[0]
	if first == nil {
		var zero T
		return zero, false
	}
	return first.item, true
}

// Max returns the largest item in the list
func (sl *SkipList[T]) Max() (T, bool) {
	prev := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for prev.next[i] != nil {
			prev = prev.next[i]
		}
	}

	if prev == sl.head {
		var zero T
		return zero, false
	}
	return prev.item, true
}

// ForEach calls fn for every item in ascending order until fn returns false
func (sl *SkipList[T]) ForEach(fn func(item T) bool) {
	for n := sl.head.next[0]; n != nil; n = n.next[0] {
		if !fn(n.item) {
			return
		}
	}
}

// Levels returns the items linked at each level in use, index 0 is the bottom level
func (sl *SkipList[T]) Levels() [][]T {
	levels := make([][]T, sl.level)
	for i := 0; i < sl.level; i++ {
		for n := sl.head.next[i]; n != nil; n = n.next[i] {
			levels[i] = append(levels[i], n.item)
		}
	}
	return levels
}

// Stats returns the length, level and per level node counts of the list
func (sl *SkipList[T]) Stats() Stats {
	counts := make([]int, sl.level)
	for n := sl.head.next[0]; n != nil; n = n.next[0] {
		for i := 0; i < len(n.next) && i < sl.level; i++ {
			counts[i]++
		}
	}

	return Stats{
		Len:         sl.length,
		Level:       sl.level,
		LevelCounts: counts,
	}
}

// Destroy releases every node with a single walk of the bottom level.
// If destructor is not nil it is called once per item, in ascending order, before the node is released.
// The list is left empty and may be reused.
func (sl *SkipList[T]) Destroy(destructor func(item T)) {
	curr := sl.head.next[0]
	for curr != nil {
		next := curr.next[0]
		if destructor != nil {
			destructor(curr.item)
		}
		curr.release()
		curr = next
	}

	for i := range sl.head.next {
		sl.head.next[i] = nil
	}
	sl.level = 1
	sl.length = 0
}

// isNil reports whether v is a nil interface, pointer, map, slice, channel or function
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
