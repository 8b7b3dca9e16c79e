// Copyright 2025 easymvp
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

// Command jsonriverdump streams a JSON document from stdin or a file,
// feeding it to a jsonriver.Decoder chunk by chunk, and logs every
// progressively more complete snapshot of the value it produces.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisschnabl/jsonriver"
)

// config holds the CLI flag values for jsonriverdump.
type config struct {
	chunkSize int
	logLevel  string
	logFormat string
}

func (c *config) registerFlags(flags *cobra.Command) {
	flags.Flags().IntVar(&c.chunkSize, "chunk-size", 64,
		"number of bytes to read per chunk, for chunk-boundary experimentation")
	flags.Flags().StringVar(&c.logLevel, "log-level", "debug",
		"minimum log level, one of: debug, info, warn, error (progressive snapshots log at debug, the final value at info)")
	flags.Flags().StringVar(&c.logFormat, "log-format", "text",
		"log output format, one of: text, json")
}

func main() {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:           "jsonriverdump [flags] [file]",
		Short:         "Stream-decode a JSON document and log each progressive snapshot",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}
	cfg.registerFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config, args []string) error {
	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	handler := newLogHandler(os.Stderr, level, cfg.logFormat)
	logger := slog.New(handler)

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	step := 0
	var final jsonriver.Value
	for v, err := range jsonriver.DecodeReaderChunked(in, cfg.chunkSize) {
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		step++
		logger.Debug("snapshot", "step", step, "value", v.String())
		final = v
	}
	logger.Info("final", "steps", step, "value", final.String())
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func newLogHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
