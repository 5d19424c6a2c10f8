// toon converts between JSON, YAML and TOON.
//
// Usage:
//
//	toon [-from json|yaml|toon] [-to toon|json|yaml] [-indent N] [-o file] [-v] [file]
//
// If no file is given, or the file is "-", input is read from stdin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	toon "github.com/toonify/toon-go"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "toon: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	from    string
	to      string
	indent  int
	output  string
	verbose bool
	input   string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("toon", flag.ContinueOnError)
	fs.StringVar(&cfg.from, "from", "json", "input format: json, yaml or toon")
	fs.StringVar(&cfg.to, "to", "toon", "output format: toon, json or yaml")
	fs.IntVar(&cfg.indent, "indent", 2, "spaces per nesting level")
	fs.StringVar(&cfg.output, "o", "", "write output to `file` instead of stdout")
	fs.BoolVar(&cfg.verbose, "v", false, "log conversion details to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	cfg.input = fs.Arg(0)
	cfg.from = strings.ToLower(cfg.from)
	cfg.to = strings.ToLower(cfg.to)
	return cfg, nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	start := time.Now()

	input := stdin
	if cfg.input != "" && cfg.input != "-" {
		f, err := os.Open(cfg.input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Debugw("read input", "input", cfg.input, "format", cfg.from, "bytes", len(data))

	val, err := readValue(cfg.from, data)
	if err != nil {
		return err
	}

	out, err := writeValue(cfg.to, val, cfg.indent)
	if err != nil {
		return err
	}

	if cfg.output != "" {
		if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Infow("converted",
		"from", cfg.from,
		"to", cfg.to,
		"bytes_in", len(data),
		"bytes_out", len(out),
		"duration", time.Since(start),
	)
	return nil
}

func readValue(format string, data []byte) (*toon.Value, error) {
	switch format {
	case "json":
		return toon.FromJSON(data)
	case "yaml", "yml":
		return toon.FromYAML(data)
	case "toon":
		return toon.DecodeBytes(data)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func writeValue(format string, v *toon.Value, indent int) ([]byte, error) {
	switch format {
	case "toon":
		opts := toon.DefaultEncodeOptions()
		opts.Indent = indent
		text, err := toon.EncodeWithOptions(v, opts)
		if err != nil {
			return nil, err
		}
		return []byte(text + "\n"), nil
	case "json":
		out, err := toon.ToJSONIndent(v, "", strings.Repeat(" ", max(indent, 0)))
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		return toon.ToYAML(v)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
