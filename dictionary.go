// Package spelldex
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
package spelldex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spelldex/spelldex/bloomfilter"
	"github.com/spelldex/spelldex/lru"
	"github.com/spelldex/spelldex/skiplist"
)

// Defaults
const (
	DefaultExpectedWords     = 1 << 18 // Sizes the bloom filter, a typical word list
	DefaultFalsePositiveRate = 0.01    // Bloom filter false positive rate
	DefaultLookupCacheSize   = 4096    // Number of lookup verdicts kept
	DefaultCacheEvictRatio   = 0.25    // Share of the cache evicted when it is full
)

var (
	ErrDictionaryClosed = errors.New("dictionary is closed")
	ErrEmptyWord        = errors.New("word cannot be empty")
)

// Options represents the configuration options for a Dictionary
type Options struct {
	ExpectedWords     uint        // Expected number of words, sizes the bloom filter
	FalsePositiveRate float64     // Bloom filter false positive rate
	LookupCacheSize   int         // Number of cached lookup verdicts, negative disables the cache
	FoldCase          bool        // Lowercase words on insert and lookup
	MaxWords          int         // Maximum number of words, 0 means unlimited
	Seed              int64       // Seed for node levels, 0 seeds from the clock
	LogChannel        chan string // Channel for logging
}

// Dictionary is an ordered word index backed by a skip list.
// A Dictionary is not safe for concurrent use; callers sharing one must synchronize.
type Dictionary struct {
	opts   *Options                   // Configuration options
	words  *skiplist.SkipList[string] // Ordered word index
	bloom  *bloomfilter.BloomFilter   // Negative pre-check in front of the skip list
	cache  *lru.LRU[string, bool]     // Recent lookup verdicts, nil when disabled
	closed bool                       // Set by Close
}

// Stats describes the state of a dictionary
type Stats struct {
	Words        int   `json:"words"`         // Number of words
	Level        int   `json:"level"`         // Highest skip list level in use
	LevelCounts  []int `json:"level_counts"`  // Nodes per skip list level
	CacheEntries int   `json:"cache_entries"` // Cached lookup verdicts
	BloomBits    uint  `json:"bloom_bits"`    // Size of the bloom filter in bits
}

// New creates a new empty dictionary with the provided options
func New(opts *Options) (*Dictionary, error) {
	if opts == nil {
		opts = &Options{}
	}

	if opts.ExpectedWords == 0 {
		opts.ExpectedWords = DefaultExpectedWords
	}

	if opts.FalsePositiveRate <= 0 || opts.FalsePositiveRate >= 1 {
		opts.FalsePositiveRate = DefaultFalsePositiveRate
	}

	if opts.LookupCacheSize == 0 {
		opts.LookupCacheSize = DefaultLookupCacheSize
	}

	var gen *skiplist.LevelGenerator
	if opts.Seed != 0 {
		gen = skiplist.NewLevelGenerator(opts.Seed)
	}

	words, err := skiplist.NewWithLevelGenerator(strings.Compare, gen)
	if err != nil {
		return nil, fmt.Errorf("failed to create skip list: %w", err)
	}

	if opts.MaxWords > 0 {
		words.SetCapacity(opts.MaxWords)
	}

	bloom, err := bloomfilter.New(opts.ExpectedWords, opts.FalsePositiveRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create bloom filter: %w", err)
	}

	d := &Dictionary{
		opts:  opts,
		words: words,
		bloom: bloom,
	}

	if opts.LookupCacheSize > 0 {
		d.cache = lru.New[string, bool](opts.LookupCacheSize, DefaultCacheEvictRatio)
	}

	d.log(fmt.Sprintf("Created dictionary, bloom filter of %d bits for %d words", bloom.Size, opts.ExpectedWords))

	return d, nil
}

// Add inserts a word into the dictionary.
// Adding a word twice keeps both copies, lookups are unaffected.
func (d *Dictionary) Add(word string) error {
	if d.closed {
		return ErrDictionaryClosed
	}

	word = d.normalize(word)
	if word == "" {
		return ErrEmptyWord
	}

	if err := d.words.Insert(word); err != nil {
		return fmt.Errorf("failed to add %q: %w", word, err)
	}

	d.bloom.AddString(word)

	// A cached miss for this word is now stale
	if d.cache != nil {
		d.cache.Delete(word)
	}

	return nil
}

// Contains reports whether word is in the dictionary
func (d *Dictionary) Contains(word string) bool {
	if d.closed {
		return false
	}

	word = d.normalize(word)
	if word == "" {
		return false
	}

	if d.cache != nil {
		if present, ok := d.cache.Get(word); ok {
			return present
		}
	}

	present := d.bloom.ContainsString(word) && d.words.Contains(word)

	if d.cache != nil {
		d.cache.Put(word, present)
	}

	return present
}

// Len returns the number of words in the dictionary
func (d *Dictionary) Len() int {
	return d.words.Len()
}

// Words calls fn for every word in ascending order until fn returns false
func (d *Dictionary) Words(fn func(word string) bool) {
	d.words.ForEach(fn)
}

// Levels returns the words linked at each skip list level, bottom level first
func (d *Dictionary) Levels() [][]string {
	return d.words.Levels()
}

// Stats returns statistics about the dictionary
func (d *Dictionary) Stats() Stats {
	sls := d.words.Stats()

	stats := Stats{
		Words:       sls.Len,
		Level:       sls.Level,
		LevelCounts: sls.LevelCounts,
		BloomBits:   d.bloom.Size,
	}

	if d.cache != nil {
		stats.CacheEntries = d.cache.Len()
	}

	return stats
}

// Close releases every word and closes the log channel
func (d *Dictionary) Close() error {
	return d.CloseWith(nil)
}

// CloseWith releases every word, calling release once per word in ascending order if it is not nil
func (d *Dictionary) CloseWith(release func(word string)) error {
	if d == nil {
		return errors.New("dictionary is nil")
	}

	if d.closed {
		return ErrDictionaryClosed
	}

	d.log(fmt.Sprintf("Closing dictionary with %d words...", d.words.Len()))

	d.words.Destroy(release)
	d.bloom.Reset()
	if d.cache != nil {
		d.cache.Clear()
	}
	d.closed = true

	d.log("Dictionary closed successfully.")

	if d.opts.LogChannel != nil {
		close(d.opts.LogChannel)
	}

	return nil
}

// normalize trims a word and folds its case when configured
func (d *Dictionary) normalize(word string) string {
	word = strings.TrimSpace(word)
	if d.opts.FoldCase {
		word = strings.ToLower(word)
	}
	return word
}

// log sends a message to the log channel if one is configured
func (d *Dictionary) log(msg string) {
	if d.opts.LogChannel != nil {
		d.opts.LogChannel <- msg
	}
}
