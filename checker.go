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
	"fmt"
	"io"
	"strings"
	"time"
)

// Misspelling is a token that was not found in the dictionary
type Misspelling struct {
	Word   string `json:"word" bson:"word"`
	Line   int    `json:"line" bson:"line"`
	Column int    `json:"column" bson:"column"`
}

// Report is the result of checking a text against the dictionary
type Report struct {
	Source     string        `json:"source,omitempty" bson:"source,omitempty"` // Name of the checked text
	Checked    int           `json:"checked" bson:"checked"`                   // Number of tokens looked up
	Misspelled []Misspelling `json:"misspelled" bson:"misspelled"`             // Tokens not in the dictionary, in text order
	Elapsed    time.Duration `json:"elapsed_ns" bson:"elapsed_ns"`             // Time spent checking
}

// Check tokenizes the text read from r and looks up every token
func (d *Dictionary) Check(r io.Reader) (*Report, error) {
	if d.closed {
		return nil, ErrDictionaryClosed
	}

	report := &Report{Misspelled: []Misspelling{}}
	start := time.Now()

	err := Tokenize(r, func(tok Token) error {
		report.Checked++
		if !d.Contains(tok.Word) {
			report.Misspelled = append(report.Misspelled, Misspelling{
				Word:   tok.Word,
				Line:   tok.Line,
				Column: tok.Column,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check text: %w", err)
	}

	report.Elapsed = time.Since(start)

	d.log(fmt.Sprintf("Checked %d words, %d misspelled in %s", report.Checked, len(report.Misspelled), report.Elapsed))

	return report, nil
}

// CheckString checks a text held in memory
func (d *Dictionary) CheckString(text string) (*Report, error) {
	return d.Check(strings.NewReader(text))
}
