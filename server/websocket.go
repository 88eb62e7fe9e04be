// Package server
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
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spelldex/spelldex"
)

const (
	wsReadLimit    = 1 << 20          // Largest text frame accepted
	wsIdleTimeout  = 5 * time.Minute  // Connection is closed after this long without a frame
	wsWriteTimeout = 10 * time.Second // Deadline for writing one report
)

// WebSocket upgrader with default settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamResponse is sent for every text frame received on /_ws/check
type StreamResponse struct {
	Type   string           `json:"type"` // "report" or "error"
	Report *spelldex.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// handleCheckStream checks every text frame of a websocket connection and answers with a report
func (s *Server) handleCheckStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	s.trackStream(conn, true)
	defer s.trackStream(conn, false)

	conn.SetReadLimit(wsReadLimit)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		resp := StreamResponse{Type: "report"}
		report, err := s.check(string(data))
		if err != nil {
			resp = StreamResponse{Type: "error", Error: err.Error()}
		} else {
			resp.Report = report
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
}
