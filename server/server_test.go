package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spelldex/spelldex"
)

func newTestServer(t *testing.T, words ...string) (*Server, *httptest.Server) {
	t.Helper()

	dict, err := spelldex.New(&spelldex.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Failed to create dictionary: %v", err)
	}
	for _, w := range words {
		if err := dict.Add(w); err != nil {
			t.Fatalf("Failed to add %s: %v", w, err)
		}
	}

	config := DefaultConfig()
	config.EnableLogging = false

	srv, err := New(config, dict)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = dict.Close()
	})

	return srv, ts
}

func TestNewNilDictionary(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Errorf("Expected error for nil dictionary")
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/_health")
	if err != nil {
		t.Fatalf("Failed to request health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("Expected status ok, got %s", health.Status)
	}
}

func TestLookup(t *testing.T) {
	_, ts := newTestServer(t, "apple", "banana")

	tests := []struct {
		word    string
		present bool
	}{
		{"apple", true},
		{"banana", true},
		{"cherry", false},
	}

	for _, tt := range tests {
		resp, err := http.Get(ts.URL + "/words/" + tt.word)
		if err != nil {
			t.Fatalf("Failed to look up %s: %v", tt.word, err)
		}

		var lookup LookupResponse
		err = json.NewDecoder(resp.Body).Decode(&lookup)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if lookup.Word != tt.word || lookup.Present != tt.present {
			t.Errorf("Lookup %s: expected present=%v, got %+v", tt.word, tt.present, lookup)
		}
	}
}

func TestAddWordsAndStats(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/words", "text/plain", strings.NewReader("one\ntwo\nthree\n"))
	if err != nil {
		t.Fatalf("Failed to add words: %v", err)
	}

	var added AddResponse
	err = json.NewDecoder(resp.Body).Decode(&added)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.StatusCode != http.StatusOK || added.Added != 3 || added.Words != 3 {
		t.Errorf("Unexpected add response %d %+v", resp.StatusCode, added)
	}

	resp, err = http.Get(ts.URL + "/_stats")
	if err != nil {
		t.Fatalf("Failed to request stats: %v", err)
	}
	defer resp.Body.Close()

	var stats spelldex.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Words != 3 {
		t.Errorf("Expected 3 words, got %d", stats.Words)
	}
}

func TestCheck(t *testing.T) {
	_, ts := newTestServer(t, "hello", "world")

	resp, err := http.Post(ts.URL+"/check", "text/plain", strings.NewReader("Hello wrld"))
	if err != nil {
		t.Fatalf("Failed to check text: %v", err)
	}
	defer resp.Body.Close()

	var report spelldex.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	if report.Checked != 2 {
		t.Errorf("Expected 2 checked words, got %d", report.Checked)
	}
	if len(report.Misspelled) != 1 || report.Misspelled[0].Word != "wrld" {
		t.Errorf("Expected wrld to be misspelled, got %+v", report.Misspelled)
	}
}

func TestConcurrentLookupsAndAdds(t *testing.T) {
	_, ts := newTestServer(t, "seed")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/words", "text/plain", strings.NewReader("alpha\nbeta\n"))
			if err == nil {
				resp.Body.Close()
			}
		}()
		go func() {
			defer wg.Done()
			resp, err := http.Get(ts.URL + "/words/seed")
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	resp, err := http.Get(ts.URL + "/words/alpha")
	if err != nil {
		t.Fatalf("Failed to look up alpha: %v", err)
	}
	defer resp.Body.Close()

	var lookup LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !lookup.Present {
		t.Errorf("Expected alpha to be present")
	}
}

func TestCheckStream(t *testing.T) {
	_, ts := newTestServer(t, "stream", "of", "words")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_ws/check"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer ws.Close()

	messages := []struct {
		text       string
		misspelled int
	}{
		{"stream of words", 0},
		{"strem of wrods", 2},
	}

	for _, m := range messages {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(m.text)); err != nil {
			t.Fatalf("Failed to send message: %v", err)
		}

		_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		var resp StreamResponse
		if err := ws.ReadJSON(&resp); err != nil {
			t.Fatalf("Failed to read response: %v", err)
		}

		if resp.Type != "report" || resp.Report == nil {
			t.Fatalf("Expected a report, got %+v", resp)
		}
		if len(resp.Report.Misspelled) != m.misspelled {
			t.Errorf("Expected %d misspellings for %q, got %+v", m.misspelled, m.text, resp.Report.Misspelled)
		}
	}
}

func TestStartShutdown(t *testing.T) {
	dict, err := spelldex.New(nil)
	if err != nil {
		t.Fatalf("Failed to create dictionary: %v", err)
	}
	defer dict.Close()

	// Reserve a free port
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = port
	config.EnableLogging = false

	srv, err := New(config, dict)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Wait for the listener
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + srv.Addr() + "/_health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Server did not start: %v", err)
	}
	resp.Body.Close()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Server did not shut down")
	}
}

func TestAddrIPv6(t *testing.T) {
	dict, err := spelldex.New(nil)
	if err != nil {
		t.Fatalf("Failed to create dictionary: %v", err)
	}
	defer dict.Close()

	config := DefaultConfig()
	config.Host = "::1"
	config.Port = 8080

	srv, err := New(config, dict)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	if srv.Addr() != "[::1]:8080" {
		t.Errorf("Expected [::1]:8080, got %s", srv.Addr())
	}
}

func TestCloseDictionaryWhileStreaming(t *testing.T) {
	srv, ts := newTestServer(t, "open")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_ws/check"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteMessage(websocket.TextMessage, []byte("open")); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp StreamResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "report" {
		t.Fatalf("Expected a report, got %+v", resp)
	}

	if err := srv.CloseDictionary(); err != nil {
		t.Fatalf("Failed to close dictionary: %v", err)
	}

	if err := ws.WriteMessage(websocket.TextMessage, []byte("open")); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	resp = StreamResponse{}
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Error, spelldex.ErrDictionaryClosed.Error()) {
		t.Errorf("Expected a closed dictionary error, got %+v", resp)
	}

	if err := srv.CloseDictionary(); !errors.Is(err, spelldex.ErrDictionaryClosed) {
		t.Errorf("Expected ErrDictionaryClosed on second close, got %v", err)
	}
}

func TestShutdownClosesStreams(t *testing.T) {
	dict, err := spelldex.New(&spelldex.Options{Seed: 1})
	if err != nil {
		t.Fatalf("Failed to create dictionary: %v", err)
	}
	defer dict.Close()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	config := DefaultConfig()
	config.Host = "127.0.0.1"
	config.Port = port
	config.EnableLogging = false

	srv, err := New(config, dict)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	var ws *websocket.Conn
	for i := 0; i < 50; i++ {
		ws, _, err = websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/_ws/check", nil)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer ws.Close()

	// One round trip so the handler is registered before shutting down
	if err := ws.WriteMessage(websocket.TextMessage, []byte("word")); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp StreamResponse
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Server did not shut down")
	}

	if err := srv.CloseDictionary(); err != nil {
		t.Errorf("Failed to close dictionary: %v", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = ws.ReadMessage()
	if err == nil {
		t.Fatalf("Expected the stream to be closed by shutdown")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Errorf("Expected the stream to be closed, read timed out instead")
	}
}
