package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spelldex/spelldex"
)

func newTestDictionary(t *testing.T, words ...string) *spelldex.Dictionary {
	t.Helper()

	dict, err := spelldex.New(&spelldex.Options{Seed: 7})
	if err != nil {
		t.Fatalf("Failed to create dictionary: %v", err)
	}
	t.Cleanup(func() { _ = dict.Close() })

	for _, w := range words {
		if err := dict.Add(w); err != nil {
			t.Fatalf("Failed to add %s: %v", w, err)
		}
	}
	return dict
}

func TestCheckText(t *testing.T) {
	dict := newTestDictionary(t, "the", "quick", "fox")

	var out bytes.Buffer
	if err := check(dict, strings.NewReader("the quikc fox\nthe dgo"), "input", "text", &out); err != nil {
		t.Fatalf("Failed to check: %v", err)
	}

	expected := "1:5 quikc\n2:5 dgo\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestCheckBSON(t *testing.T) {
	dict := newTestDictionary(t, "word")

	var out bytes.Buffer
	if err := check(dict, strings.NewReader("word wrod"), "input", "bson", &out); err != nil {
		t.Fatalf("Failed to check: %v", err)
	}

	report, err := spelldex.DecodeReportBSON(out.Bytes())
	if err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	if report.Source != "input" || report.Checked != 2 || len(report.Misspelled) != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestPrintLevels(t *testing.T) {
	dict := newTestDictionary(t, "b", "a", "c")

	var out bytes.Buffer
	if err := printLevels(&out, dict); err != nil {
		t.Fatalf("Failed to print levels: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) == 0 || lines[0] != "0: a b c" {
		t.Errorf("Expected bottom level to hold every word in order, got %q", out.String())
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("word\n"), 0644); err != nil {
		t.Fatalf("Failed to write word list: %v", err)
	}

	if err := run(path, "xml", false, 0, 1, false, false, "", nil); err == nil {
		t.Errorf("Expected error for unknown format")
	}
}

func TestRunChecksFiles(t *testing.T) {
	dir := t.TempDir()

	dictPath := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(dictPath, []byte("hello\nworld\n"), 0644); err != nil {
		t.Fatalf("Failed to write word list: %v", err)
	}

	textPath := filepath.Join(dir, "text.txt")
	if err := os.WriteFile(textPath, []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write text: %v", err)
	}

	if err := run(dictPath, "text", false, 0, 1, false, false, "", []string{textPath}); err != nil {
		t.Errorf("Expected clean run, got %v", err)
	}

	if err := run(dictPath, "text", false, 0, 1, false, false, "", []string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Errorf("Expected error for missing file")
	}
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		addr    string
		host    string
		port    int
		wantErr bool
	}{
		{"localhost:8080", "localhost", 8080, false},
		{":9000", "", 9000, false},
		{"[::1]:8080", "::1", 8080, false},
		{"127.0.0.1:0", "127.0.0.1", 0, false},
		{"localhost", "", 0, true},
		{"localhost:http", "", 0, true},
		{"localhost:70000", "", 0, true},
		{"::1:8080", "", 0, true},
	}

	for _, tt := range tests {
		host, port, err := parseAddr(tt.addr)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected error for %q, got %s:%d", tt.addr, host, port)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tt.addr, err)
			continue
		}
		if host != tt.host || port != tt.port {
			t.Errorf("parseAddr(%q) = %s, %d, expected %s, %d", tt.addr, host, port, tt.host, tt.port)
		}
	}
}
