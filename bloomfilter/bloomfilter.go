// Package bloomfilter
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
package bloomfilter

import (
	"errors"
	"math"

	"github.com/cespare/xxhash/v2"
)

// salt is mixed into the second digest so both hashes are independent
var salt = []byte{0x9e, 0x37, 0x79, 0xb9, 0x7f, 0x4a, 0x7c, 0x15}

// BloomFilter struct represents a Bloom filter
type BloomFilter struct {
	Bitset    []uint64 // Bitset, each uint64 stores 64 bits
	Size      uint     // Size of the bit array
	hashCount uint     // Number of hash functions
}

// New creates a new Bloom filter with an expected number of items and false positive rate
func New(expectedItems uint, falsePositiveRate float64) (*BloomFilter, error) {
	if expectedItems == 0 {
		return nil, errors.New("expectedItems must be greater than 0")
	}

	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return nil, errors.New("falsePositiveRate must be between 0 and 1")
	}

	size := optimalSize(expectedItems, falsePositiveRate)
	if falsePositiveRate < 0.01 {
		// Add 20% extra space for very low FPR targets
		size = uint(float64(size) * 1.2)
	}

	// An odd size keeps the double hashing stride from cycling early
	size = nextOddNumber(size)

	bf := &BloomFilter{
		Bitset:    make([]uint64, (size+63)/64),
		Size:      size,
		hashCount: optimalHashCount(size, expectedItems),
	}

	return bf, nil
}

// Add adds an item to the Bloom filter
func (bf *BloomFilter) Add(data []byte) {
	h1, h2 := twoHashes(xxhash.Sum64(data), saltedSum(data))
	bf.set(h1, h2)
}

// AddString adds a string to the Bloom filter without copying it
func (bf *BloomFilter) AddString(s string) {
	h1, h2 := twoHashes(xxhash.Sum64String(s), saltedSumString(s))
	bf.set(h1, h2)
}

// Contains checks if an item might exist in the Bloom filter
func (bf *BloomFilter) Contains(data []byte) bool {
	h1, h2 := twoHashes(xxhash.Sum64(data), saltedSum(data))
	return bf.test(h1, h2)
}

// ContainsString checks if a string might exist in the Bloom filter
func (bf *BloomFilter) ContainsString(s string) bool {
	h1, h2 := twoHashes(xxhash.Sum64String(s), saltedSumString(s))
	return bf.test(h1, h2)
}

// Reset clears every bit of the filter
func (bf *BloomFilter) Reset() {
	for i := range bf.Bitset {
		bf.Bitset[i] = 0
	}
}

// set sets the k bits for the given base hashes
// h_i(x) = (h1(x) + i*h2(x)) mod m
func (bf *BloomFilter) set(h1, h2 uint64) {
	m := uint64(bf.Size)
	for i := uint64(0); i < uint64(bf.hashCount); i++ {
		position := (h1 + i*h2) % m
		bf.Bitset[position/64] |= 1 << (position % 64)
	}
}

// test checks the k bits for the given base hashes
func (bf *BloomFilter) test(h1, h2 uint64) bool {
	m := uint64(bf.Size)
	for i := uint64(0); i < uint64(bf.hashCount); i++ {
		position := (h1 + i*h2) % m
		if bf.Bitset[position/64]&(1<<(position%64)) == 0 {
			return false // Definitely not in set
		}
	}
	return true // Might be in set
}

// twoHashes makes sure the stride is never zero
func twoHashes(h1, h2 uint64) (uint64, uint64) {
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// saltedSum hashes salt followed by data, short inputs stay on the stack
func saltedSum(data []byte) uint64 {
	var buf [64]byte
	b := append(buf[:0], salt...)
	b = append(b, data...)
	return xxhash.Sum64(b)
}

// saltedSumString hashes salt followed by s, matching saltedSum for the same bytes
func saltedSumString(s string) uint64 {
	var buf [64]byte
	b := append(buf[:0], salt...)
	b = append(b, s...)
	return xxhash.Sum64(b)
}

// optimalSize calculates the optimal size of the bit array
func optimalSize(n uint, p float64) uint {
	return uint(math.Ceil(-float64(n) * math.Log(p) / math.Pow(math.Log(2), 2)))
}

// optimalHashCount calculates the optimal number of hash functions
func optimalHashCount(size uint, n uint) uint {
	return uint(math.Ceil(float64(size) / float64(n) * math.Log(2)))
}

// nextOddNumber returns the next odd number >= n
func nextOddNumber(n uint) uint {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// CalculateTheoreticalFPP returns the theoretical false positive probability
// based on the current state of the filter
func (bf *BloomFilter) CalculateTheoreticalFPP(itemsAdded uint) float64 {
	if itemsAdded == 0 {
		return 0.0
	}

	// (1 - e^(-kn/m))^k
	k := float64(bf.hashCount)
	m := float64(bf.Size)
	n := float64(itemsAdded)

	return math.Pow(1.0-math.Exp(-k*n/m), k)
}
