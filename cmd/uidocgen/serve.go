package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	mcpserver "github.com/gnana997/uidocgen/pkg/mcp"
	"github.com/gnana997/uidocgen/pkg/mcplog"
	"github.com/gnana997/uidocgen/pkg/workspace"
)

// runServe serves the MCP tools on stdin/stdout. stdout belongs to the
// protocol, so everything else goes to stderr.
func runServe(args []string, stderr io.Writer) int {
	var common commonFlags
	var root, logPath string
	var watch bool
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common.register(fs)
	fs.StringVar(&root, "root", "", "directory relative tool paths resolve against (default: working directory)")
	fs.StringVar(&logPath, "mcp-log", "", "append a JSON line per tool call to this file")
	fs.BoolVar(&watch, "watch", true, "drop cached files when they change under root")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := common.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if logPath == "" {
		logPath = cfg.MCPLog
	}
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
	}

	a, err := newApp(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	callLog, err := mcplog.NewLogger(logPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open MCP log: %v\n", err)
		return 1
	}
	if callLog != nil {
		defer callLog.Close()
	}

	if watch {
		w, err := workspace.NewWatcher(root, workspace.WatchOptions{
			Include: cfg.Include,
			Exclude: cfg.Exclude,
		}, func(ev workspace.Event) {
			a.invalidate(ev.Path)
		}, a.logger)
		if err == nil {
			err = w.Start()
			defer w.Stop()
		}
		if err != nil {
			a.logger.Warn("file watching disabled", "root", root, "error", err)
		}
	}

	srv := mcpserver.NewServer(a.gen, mcpserver.Options{
		Root:     root,
		Importer: a.importer(),
		Files:    a.files,
		Logger:   callLog,
	})
	a.logger.Info("serving MCP on stdio", "root", root, "version", mcpserver.Version)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}
