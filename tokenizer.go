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
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Token is a case folded word extracted from text
type Token struct {
	Word   string // Lowercased letters of the token
	Line   int    // Line of the first letter, starting at 1
	Column int    // Rune column of the first letter, starting at 1
}

// Tokenize reads text from r and calls fn for every token.
// Letters accumulate into the current token, whitespace ends it and any other rune is dropped,
// so "don't" yields "dont". Tokenizing stops at the first error returned by fn.
func Tokenize(r io.Reader, fn func(tok Token) error) error {
	br := bufio.NewReader(r)

	var word strings.Builder
	line, column := 1, 0
	var tok Token

	flush := func() error {
		if word.Len() == 0 {
			return nil
		}
		tok.Word = word.String()
		word.Reset()
		return fn(tok)
	}

	for {
		ch, _, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read text: %w", err)
		}
		column++

		switch {
		case unicode.IsLetter(ch):
			if word.Len() == 0 {
				tok = Token{Line: line, Column: column}
			}
			word.WriteRune(unicode.ToLower(ch))
		case unicode.IsSpace(ch):
			if err := flush(); err != nil {
				return err
			}
			if ch == '\n' {
				line++
				column = 0
			}
		}
	}

	return flush()
}
