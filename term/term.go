// Package term
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
package term

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd uintptr) bool {
	return terminal.IsTerminal(int(fd))
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	return IsTerminal(f.Fd())
}
