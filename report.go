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
	"encoding/json"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// WriteText writes one misspelled word per line as "line:column word"
func (r *Report) WriteText(w io.Writer) error {
	for _, m := range r.Misspelled {
		if _, err := fmt.Fprintf(w, "%d:%d %s\n", m.Line, m.Column, m.Word); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the report as a single JSON document
func (r *Report) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

// WriteBSON writes the report as a single BSON document
func (r *Report) WriteBSON(w io.Writer) error {
	data, err := bson.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// DecodeReportBSON decodes a report written by WriteBSON
func DecodeReportBSON(data []byte) (*Report, error) {
	var r Report
	if err := bson.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}
