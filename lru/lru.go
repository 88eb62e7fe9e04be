// Package lru
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
package lru

import (
	"math"
	"sync"
)

type EvictionCallback[K comparable, V any] func(key K, value V) // For when a key is evicted

// Node represents a node in the recency list
type Node[K comparable, V any] struct {
	key       K           // Key of the node
	value     V           // Value of the node
	accessCnt uint64      // Count of accesses
	next      *Node[K, V] // Towards the least recently used end
	prev      *Node[K, V] // Towards the most recently used end
}

// LRU is a bounded map that evicts the least recently used keys first
type LRU[K comparable, V any] struct {
	lock       sync.Mutex             // Guards everything below
	sentinel   *Node[K, V]            // sentinel.next is the most recent, sentinel.prev the least recent
	items      map[K]*Node[K, V]      // Key index
	capacity   int                    // Maximum capacity
	evictRatio float64                // Ratio of nodes to evict when capacity is reached
	onEvict    EvictionCallback[K, V] // Optional eviction callback
}

// New creates a new LRU.
// A capacity <= 0 means unlimited, evictRatio outside (0, 1) defaults to 25%.
func New[K comparable, V any](capacity int, evictRatio float64) *LRU[K, V] {
	if capacity <= 0 {
		capacity = math.MaxInt
	}
	if evictRatio <= 0 || evictRatio >= 1 {
		evictRatio = 0.25 // Default to 25%
	}

	sentinel := &Node[K, V]{}
	sentinel.next = sentinel
	sentinel.prev = sentinel

	return &LRU[K, V]{
		sentinel:   sentinel,
		items:      make(map[K]*Node[K, V]),
		capacity:   capacity,
		evictRatio: evictRatio,
	}
}

// OnEvict sets the callback invoked for every evicted key
func (list *LRU[K, V]) OnEvict(fn EvictionCallback[K, V]) {
	list.lock.Lock()
	defer list.lock.Unlock()
	list.onEvict = fn
}

// Get retrieves a value by key and marks it most recently used
func (list *LRU[K, V]) Get(key K) (V, bool) {
	list.lock.Lock()
	defer list.lock.Unlock()

	node, ok := list.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	node.accessCnt++
	list.moveToFront(node)
	return node.value, true
}

// Put adds or updates a key-value pair
func (list *LRU[K, V]) Put(key K, value V) {
	list.lock.Lock()
	defer list.lock.Unlock()

	if node, ok := list.items[key]; ok {
		node.value = value
		node.accessCnt++
		list.moveToFront(node)
		return
	}

	// Check if we need to evict before adding
	if len(list.items) >= list.capacity {
		list.evict()
	}

	node := &Node[K, V]{
		key:       key,
		value:     value,
		accessCnt: 1,
	}
	list.items[key] = node
	list.pushFront(node)
}

// Delete removes a node by key
func (list *LRU[K, V]) Delete(key K) bool {
	list.lock.Lock()
	defer list.lock.Unlock()

	node, ok := list.items[key]
	if !ok {
		return false
	}

	list.unlink(node)
	delete(list.items, key)
	return true
}

// Len returns the current number of entries
func (list *LRU[K, V]) Len() int {
	list.lock.Lock()
	defer list.lock.Unlock()
	return len(list.items)
}

// ForEach iterates from the most to the least recently used entry
func (list *LRU[K, V]) ForEach(fn func(key K, value V, accessCount uint64) bool) {
	list.lock.Lock()
	defer list.lock.Unlock()

	for node := list.sentinel.next; node != list.sentinel; node = node.next {
		if !fn(node.key, node.value, node.accessCnt) {
			return
		}
	}
}

// Clear empties the list without calling the eviction callback
func (list *LRU[K, V]) Clear() {
	list.lock.Lock()
	defer list.lock.Unlock()

	list.sentinel.next = list.sentinel
	list.sentinel.prev = list.sentinel
	list.items = make(map[K]*Node[K, V])
}

// evict removes a proportion of the least recently used nodes
func (list *LRU[K, V]) evict() {
	toEvict := int(float64(len(list.items)) * list.evictRatio)
	if toEvict < 1 {
		toEvict = 1
	}

	for i := 0; i < toEvict && list.sentinel.prev != list.sentinel; i++ {
		node := list.sentinel.prev
		list.unlink(node)
		delete(list.items, node.key)

		if list.onEvict != nil {
			list.onEvict(node.key, node.value)
		}
	}
}

func (list *LRU[K, V]) pushFront(node *Node[K, V]) {
	node.prev = list.sentinel
	node.next = list.sentinel.next
	list.sentinel.next.prev = node
	list.sentinel.next = node
}

func (list *LRU[K, V]) unlink(node *Node[K, V]) {
	node.prev.next = node.next
	node.next.prev = node.prev
	node.next = nil
	node.prev = nil
}

func (list *LRU[K, V]) moveToFront(node *Node[K, V]) {
	if list.sentinel.next == node {
		return
	}
	list.unlink(node)
	list.pushFront(node)
}
