package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/workspace"
)

// watchRecord is one line of watch output.
type watchRecord struct {
	Path    string                `json:"path"`
	Docs    []*docs.Documentation `json:"docs,omitempty"`
	Removed bool                  `json:"removed,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// runWatch documents a directory, then re-documents files as they change.
// Each result is written as one JSON line.
func runWatch(args []string, stdout, stderr io.Writer) int {
	var common commonFlags
	var debounce time.Duration
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common.register(fs)
	fs.DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay before re-documenting a changed file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	cfg, err := common.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	a, err := newApp(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := &recordWriter{enc: json.NewEncoder(stdout)}
	results, stats, err := workspace.Generate(ctx, a.gen, root, a.workspaceOptions(), nil, a.logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, r := range results {
		out.write(resultRecord(r))
	}
	a.logger.Info("initial pass complete",
		"files", stats.FilesDiscovered,
		"documented", stats.FilesDocumented,
		"duration", stats.Duration)

	w, err := workspace.NewWatcher(root, workspace.WatchOptions{
		Debounce: debounce,
		Include:  cfg.Include,
		Exclude:  cfg.Exclude,
	}, func(ev workspace.Event) {
		a.invalidate(ev.Path)
		if ev.Removed {
			out.write(watchRecord{Path: ev.Path, Removed: true})
			return
		}
		results, _ := workspace.Run(ctx, a.gen, []string{ev.Path}, a.workspaceOptions(), nil, a.logger)
		for _, r := range results {
			out.write(resultRecord(r))
		}
	}, a.logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer w.Stop()

	<-ctx.Done()
	return 0
}

func resultRecord(r workspace.Result) watchRecord {
	if r.Err != nil {
		return watchRecord{Path: r.Path, Error: r.Err.Error()}
	}
	return watchRecord{Path: r.Path, Docs: r.Docs}
}

// recordWriter serializes writes from the watcher's goroutines.
type recordWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (w *recordWriter) write(rec watchRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.enc.Encode(rec)
}
