// Package main
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
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/spelldex/spelldex"
	"github.com/spelldex/spelldex/server"
	"github.com/spelldex/spelldex/term"
)

const usage = `Usage: spelldex -dict <words.txt[.gz|.zst|.sz]> [flags] [file...]
       spelldex -dict <words.txt> -serve <host:port>

Checks every file (or piped stdin) against the dictionary and prints the words not found.
`

func main() {
	dictPath := flag.String("dict", "", "word list, one word per line")
	format := flag.String("format", "text", "report format: text, json or bson")
	fold := flag.Bool("fold", false, "lowercase dictionary words")
	maxWords := flag.Int("max-words", 0, "maximum number of words to load, 0 for unlimited")
	seed := flag.Int64("seed", 0, "seed for skip list levels, 0 seeds from the clock")
	verbose := flag.Bool("v", false, "log progress to stderr")
	levels := flag.Bool("levels", false, "print the words at every skip list level and exit")
	serve := flag.String("serve", "", "serve lookups over HTTP on host:port instead of checking files")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*dictPath, *format, *fold, *maxWords, *seed, *verbose, *levels, *serve, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "spelldex: %v\n", err)
		os.Exit(1)
	}
}

func run(dictPath, format string, fold bool, maxWords int, seed int64, verbose, levels bool, serve string, files []string) error {
	if dictPath == "" {
		flag.Usage()
		return errors.New("missing -dict")
	}

	switch format {
	case "text", "json", "bson":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	opts := &spelldex.Options{
		FoldCase: fold,
		MaxWords: maxWords,
		Seed:     seed,
	}

	wg := &sync.WaitGroup{}
	if verbose {
		logChannel := make(chan string, 100)
		opts.LogChannel = logChannel

		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range logChannel {
				fmt.Fprintln(os.Stderr, msg)
			}
		}()
	}

	dict, err := spelldex.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create dictionary: %w", err)
	}
	defer func() {
		// Already closed when serving
		_ = dict.Close()
		wg.Wait()
	}()

	if _, err := dict.LoadFile(dictPath); err != nil {
		// Words that could not be added are not fatal, the rest of the list is usable
		if dict.Len() == 0 {
			return err
		}
		fmt.Fprintf(os.Stderr, "spelldex: %v\n", err)
	}

	if levels {
		return printLevels(os.Stdout, dict)
	}

	if serve != "" {
		return runServer(dict, serve)
	}

	if len(files) == 0 {
		if term.IsInteractive(os.Stdin) {
			flag.Usage()
			return errors.New("missing file to check")
		}
		return check(dict, os.Stdin, "stdin", format, os.Stdout)
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		err = check(dict, f, path, format, os.Stdout)
		f.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func check(dict *spelldex.Dictionary, r io.Reader, source, format string, w io.Writer) error {
	report, err := dict.Check(r)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", source, err)
	}
	report.Source = source

	switch format {
	case "json":
		return report.WriteJSON(w)
	case "bson":
		return report.WriteBSON(w)
	default:
		return report.WriteText(w)
	}
}

func printLevels(w io.Writer, dict *spelldex.Dictionary) error {
	for i, words := range dict.Levels() {
		if _, err := fmt.Fprintf(w, "%d: %s\n", i, strings.Join(words, " ")); err != nil {
			return err
		}
	}
	return nil
}

// parseAddr splits a host:port listen address, the host may be empty or a bracketed IPv6 literal
func parseAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q in address %q", portStr, addr)
	}

	return host, port, nil
}

func runServer(dict *spelldex.Dictionary, addr string) error {
	host, port, err := parseAddr(addr)
	if err != nil {
		return err
	}

	config := server.DefaultConfig()
	config.Host = host
	config.Port = port

	srv, err := server.New(config, dict)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving %d words on %s\n", dict.Len(), srv.Addr())

	err = srv.Start(ctx)

	// Websocket handlers may outlive Start, close under the server lock
	if cerr := srv.CloseDictionary(); cerr != nil && err == nil {
		err = cerr
	}

	return err
}
