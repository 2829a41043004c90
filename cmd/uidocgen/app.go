package main

import (
	"io"
	"log/slog"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docgen"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/importer"
	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/util"
	"github.com/gnana997/uidocgen/pkg/workspace"
)

// app holds the long-lived pieces shared by the commands.
type app struct {
	cfg      ProjectConfig
	logger   *slog.Logger
	pm       *parser.ParserManager
	files    util.FileCache
	fs       *importer.FS
	gen      *docgen.Generator
	resolver finder.Resolver
}

func newApp(cfg ProjectConfig, stderr io.Writer) (*app, error) {
	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(cfg.LogLevel),
		Format: util.ParseLogFormat(cfg.LogFormat),
		Output: stderr,
	})
	resolver, err := docgen.ResolverByName(cfg.Resolver)
	if err != nil {
		return nil, err
	}

	pm := parser.NewParserManagerWithPoolSize(logger, util.GetOptimalPoolSizeWithOverride(cfg.Workers))
	fcConfig := util.DefaultFileCacheConfig()
	fcConfig.Logger = logger
	files := util.NewFileCache(fcConfig)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		pm:       pm,
		files:    files,
		gen:      docgen.New(pm, logger),
		resolver: resolver,
	}
	if cfg.Importer == "fs" {
		fs, err := importer.NewFS(importer.FSOptions{Parser: pm, Files: files, Logger: logger})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.fs = fs
	}
	return a, nil
}

// importer returns the configured importer, or nil to ignore imports.
func (a *app) importer() ast.Importer {
	if a.fs == nil {
		return nil
	}
	return a.fs
}

func (a *app) workspaceOptions() workspace.Options {
	return workspace.Options{
		Include:  a.cfg.Include,
		Exclude:  a.cfg.Exclude,
		Workers:  util.GetOptimalPoolSizeWithOverride(a.cfg.Workers),
		Resolver: a.resolver,
		Importer: a.importer(),
		Files:    a.files,
	}
}

// invalidate drops every cached copy of path.
func (a *app) invalidate(path string) {
	if a.fs != nil {
		a.fs.Invalidate(path)
		return
	}
	a.files.Invalidate(path)
}

func (a *app) Close() {
	if a.fs != nil {
		a.fs.Close()
	}
	a.files.Close()
	a.pm.Close()
}
