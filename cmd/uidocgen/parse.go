package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/workspace"
)

// parseOptions holds parsed flags for the parse and inspect commands.
type parseOptions struct {
	common commonFlags
	pretty bool
	format string
	out    string
}

func parseParseFlags(name, defaultFormat string, args []string, stderr io.Writer) (*parseOptions, []string, error) {
	opts := &parseOptions{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.common.register(fs)
	fs.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	fs.StringVar(&opts.format, "format", defaultFormat, "output format: json or text")
	fs.StringVar(&opts.out, "out", "", "write output to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.format != "json" && opts.format != "text" {
		err := fmt.Errorf("unknown format %q (want json or text)", opts.format)
		fmt.Fprintln(stderr, err)
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

// runParse documents files, directories and globs and prints
// {path: [docs]}. Files that fail are reported on stderr and skipped.
func runParse(args []string, stdout, stderr io.Writer) int {
	opts, targets, err := parseParseFlags("parse", "json", args, stderr)
	if err != nil {
		return 2
	}
	return documentTargets(opts, targets, stdout, stderr)
}

// runInspect is parse with text output by default.
func runInspect(args []string, stdout, stderr io.Writer) int {
	opts, targets, err := parseParseFlags("inspect", "text", args, stderr)
	if err != nil {
		return 2
	}
	return documentTargets(opts, targets, stdout, stderr)
}

func documentTargets(opts *parseOptions, targets []string, stdout, stderr io.Writer) int {
	if len(targets) == 0 {
		fmt.Fprintln(stderr, "no files given")
		return 2
	}
	cfg, err := opts.common.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if opts.out == "" {
		opts.out = cfg.Output
	}
	a, err := newApp(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	files, err := expandTargets(targets, cfg.Include, cfg.Exclude)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "no matching files")
		return 1
	}

	results, _ := workspace.Run(context.Background(), a.gen, files, a.workspaceOptions(), nil, a.logger)

	out := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			fmt.Fprintf(stderr, "failed to create %s: %v\n", opts.out, err)
			return 1
		}
		defer f.Close()
		out = f
	}

	documented := make(map[string][]*docs.Documentation, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", r.Path, r.Err)
			failed++
			continue
		}
		documented[r.Path] = r.Docs
	}

	if opts.format == "text" {
		for _, r := range results {
			if r.Err == nil {
				printDocsHuman(out, r.Path, r.Docs)
			}
		}
	} else if err := writeJSON(out, documented, opts.pretty); err != nil {
		fmt.Fprintf(stderr, "failed to write output: %v\n", err)
		return 1
	}

	if failed == len(results) {
		return 1
	}
	return 0
}

// expandTargets turns arguments into file paths: directories are
// discovered with the include and exclude patterns, globs are expanded,
// anything else is taken as a file.
func expandTargets(targets, include, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, target := range targets {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			found, err := workspace.Discover(target, include, exclude)
			if err != nil {
				return nil, err
			}
			add(found...)
			continue
		}
		if strings.ContainsAny(target, "*?[{") {
			matches, err := doublestar.FilepathGlob(target, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", target, err)
			}
			add(matches...)
			continue
		}
		add(target)
	}
	return files, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
