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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Word list extensions recognized by LoadFile
const (
	GzipExtension   = ".gz"  // gzip compressed word list
	ZstdExtension   = ".zst" // zstd compressed word list
	SnappyExtension = ".sz"  // snappy framed word list
)

const maxWordLength = 64 * 1024 // Longest line accepted by the loader

// Load reads one word per line from r and adds every word to the dictionary.
// Trailing line terminators are trimmed and blank lines are skipped.
// A word that cannot be added is logged and skipped; the first such error is returned
// after the whole input has been read, together with the number of words added.
func (d *Dictionary) Load(r io.Reader) (int, error) {
	if d.closed {
		return 0, ErrDictionaryClosed
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxWordLength)

	added := 0
	failed := 0
	var firstErr error

	for scanner.Scan() {
		word := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(word) == "" {
			continue
		}

		if err := d.Add(word); err != nil {
			d.log(fmt.Sprintf("Failed to add word: %v", err))
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		added++
	}

	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("failed to read word list: %w", err)
	}

	if firstErr != nil {
		return added, fmt.Errorf("%d words could not be added: %w", failed, firstErr)
	}

	return added, nil
}

// LoadFile loads a word list from path, decompressing it based on its extension
func (d *Dictionary) LoadFile(path string) (int, error) {
	if d.closed {
		return 0, ErrDictionaryClosed
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	r, closer, err := decompressor(f, filepath.Ext(path))
	if err != nil {
		return 0, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer closer()

	d.log(fmt.Sprintf("Loading dictionary from %s...", path))
	start := time.Now()

	added, err := d.Load(r)

	d.log(fmt.Sprintf("Loaded %d words from %s in %s", added, path, time.Since(start)))

	return added, err
}

// decompressor wraps r in a decoder for the given file extension
func decompressor(r io.Reader, ext string) (io.Reader, func(), error) {
	switch strings.ToLower(ext) {
	case GzipExtension:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case ZstdExtension:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return dec, dec.Close, nil
	case SnappyExtension:
		return snappy.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}
