// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command hashmaps exercises the hashmaps package from the command line:
// computing modes, checking quadratic probe coverage and printing the shape
// of a map loaded with words.
package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/natefinch/lumberjack"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("hashmaps")

var stderrLogFormat = logging.MustStringFormatter(
	`%{color:reset}%{color}%{time:15:04:05.000} [%{shortfunc}] [%{level}] %{message}`,
)

var fileLogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{shortfunc}] [%{level}] %{message}`,
)

type Options struct {
	LogLevel string `short:"l" long:"loglevel" default:"warning" description:"set the logging level [debug, info, notice, warning, error, critical]"`
	LogFile  string `long:"logfile" description:"also write logs to this file, rotated at 10MB"`
}

var opts Options

var modeCommand ModeCommand
var coverageCommand CoverageCommand
var statsCommand StatsCommand

var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.AddCommand("mode",
		"print the most frequent values",
		"The mode command counts the values given as arguments (or read from stdin) and prints the most frequent ones",
		&modeCommand)
	parser.AddCommand("coverage",
		"check quadratic probe coverage",
		"The coverage command verifies that quadratic probing over every odd prime capacity reaches (p+1)/2 slots",
		&coverageCommand)
	parser.AddCommand("stats",
		"print map statistics",
		"The stats command loads words given as arguments (or read from stdin) into a map and prints its shape",
		&statsCommand)

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if err := setupLogging(opts); err != nil {
			return err
		}
		return command.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(o Options) error {
	level, err := logging.LogLevel(strings.ToUpper(o.LogLevel))
	if err != nil {
		return err
	}

	backendStderr := logging.NewLogBackend(os.Stderr, "", 0)
	backends := []logging.Backend{logging.NewBackendFormatter(backendStderr, stderrLogFormat)}
	if o.LogFile != "" {
		w := &lumberjack.Logger{
			Filename:   o.LogFile,
			MaxSize:    10, // Megabytes
			MaxBackups: 3,
			MaxAge:     30, // Days
		}
		backendFile := logging.NewLogBackend(w, "", 0)
		backends = append(backends, logging.NewBackendFormatter(backendFile, fileLogFormat))
	}
	logging.SetBackend(backends...)
	logging.SetLevel(level, "")
	return nil
}

// readTokens returns args if any were given and otherwise the whitespace
// separated tokens of r.
func readTokens(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Debugf("read %d tokens from stdin", len(tokens))
	return tokens, nil
}
