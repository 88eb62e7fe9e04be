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

// Iterator walks the bottom level of a skip list in ascending order.
// Inserting into the list while iterating is allowed; the iterator may or may not see the new item.
type Iterator[T any] struct {
	SkipList *SkipList[T] // Reference to the skip list
	current  *Node[T]     // Current node in the iteration, nil before the first Next and at the end
	pred     *Node[T]     // Node preceding the first item, cleared by the first Next
}

// NewIterator creates an iterator positioned before the first item
func (sl *SkipList[T]) NewIterator() *Iterator[T] {
	return &Iterator[T]{
		SkipList: sl,
		pred:     sl.head,
	}
}

// NewIteratorAt creates an iterator positioned before the first item not less than start
func (sl *SkipList[T]) NewIteratorAt(start T) (*Iterator[T], error) {
	if isNil(start) {
		return nil, ErrNilItem
	}

	return &Iterator[T]{
		SkipList: sl,
		pred:     sl.findPredecessors(start, nil),
	}, nil
}

// Valid checks if the iterator is currently pointing to an item
func (it *Iterator[T]) Valid() bool {
	return it.current != nil
}

// Item returns the current item
func (it *Iterator[T]) Item() T {
	if !it.Valid() {
		var zero T
		return zero
	}
	return it.current.item
}

// Next moves the iterator to the next item and returns it.
// Returns false when there are no more items.
func (it *Iterator[T]) Next() (T, bool) {
	var zero T

	prev := it.current
	if prev == nil {
		prev = it.pred
		it.pred = nil
	}

	// A released node has no links left
	if prev == nil || len(prev.next) == 0 {
		it.current = nil
		return zero, false
	}

	it.current = prev.next[0]
	if it.current == nil {
		return zero, false
	}
	return it.current.item, true
}
