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

// Node represents a node in the skip list.
// next[i] is the successor at level i; len(next) is the node's level.
type Node[T any] struct {
	item T          // item stored in the node, zero for the head
	next []*Node[T] // successor per level, index 0 is the bottom level
}

// newNode creates a node participating in the given number of levels
func newNode[T any](item T, level int) *Node[T] {
	return &Node[T]{
		item: item,
		next: make([]*Node[T], level),
	}
}

// Item returns the item stored in the node
func (n *Node[T]) Item() T {
	return n.item
}

// Level returns the number of levels the node participates in
func (n *Node[T]) Level() int {
	return len(n.next)
}

// Next returns the successor at level i, or nil at the end of the chain or above the node's level
func (n *Node[T]) Next(i int) *Node[T] {
	if i < 0 || i >= len(n.next) {
		return nil
	}
	return n.next[i]
}

// release drops the node's item and links
func (n *Node[T]) release() {
	var zero T
	n.item = zero
	for i := range n.next {
		n.next[i] = nil
	}
	n.next = nil
}
