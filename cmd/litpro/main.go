package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abhishekshiv/litpro/internal/api"
	"github.com/abhishekshiv/litpro/internal/config"
	"github.com/abhishekshiv/litpro/internal/document"
	"github.com/abhishekshiv/litpro/internal/export"
	"github.com/abhishekshiv/litpro/internal/extract"
	"github.com/abhishekshiv/litpro/internal/runner"
)

const usage = `litpro - literate programming toolkit

Usage:
  litpro run    [flags] <file>            parse, resolve, and simulate execution
  litpro export [flags] [-o out] <file>   export code in execution order
  litpro html   [flags] [-o out] <file>   generate HTML documentation
  litpro serve  [flags] [-addr a] <file>  preview server with live reload

Common flags (before the file argument):
  -config path    YAML config file
  -lang tag       code fence language tag (default from config)
  -strict         reject malformed markers instead of skipping
  -log-level l    debug | info | warn | error
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:])
	case "html":
		err = cmdHTML(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

// common holds everything a subcommand needs after flag parsing.
type common struct {
	cfg    *config.Config
	opts   extract.Options
	loader *document.Loader
	file   string
}

// setup parses the shared flags on fs, loads configuration, and opens
// the document.
func setup(fs *flag.FlagSet, args []string) (*common, error) {
	cfgPath := fs.String("config", "", "path to YAML config file")
	lang := fs.String("lang", "", "code fence language tag")
	strict := fs.Bool("strict", false, "reject malformed markers")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	initLogger(*logLevel)

	if fs.NArg() < 1 {
		return nil, fmt.Errorf("missing input file")
	}
	file := fs.Arg(0)
	if !hasLiterateExt(file) {
		return nil, fmt.Errorf("file must have .md, .lpmd, or .lit extension: %s", file)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return nil, err
	}
	if *lang != "" {
		cfg.Language = *lang
	}
	if *strict {
		cfg.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := extract.Options{Language: cfg.Language, Strict: cfg.Strict}
	loader, err := document.NewLoader(file, opts)
	if err != nil {
		return nil, err
	}

	snap := loader.Snapshot()
	slog.Info("document parsed", "file", file, "cells", len(snap.Cells))
	for _, d := range snap.Diags {
		slog.Warn("diagnostic", "kind", d.Kind, "cell", d.CellID, "detail", d.Detail)
	}

	return &common{cfg: cfg, opts: opts, loader: loader, file: file}, nil
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c, err := setup(fs, args)
	if err != nil {
		return err
	}

	rep, err := runner.New(os.Stdout).Run(c.loader.Snapshot())
	if err != nil {
		return err
	}
	slog.Info("run complete", "run_id", rep.RunID, "cells", len(rep.Cells), "duration_ms", rep.DurationMs)
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	format := fs.String("format", "code", "output format")
	c, err := setup(fs, args)
	if err != nil {
		return err
	}

	reg := exporters(c.cfg)
	exp, err := reg.Get(*format)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(reg.Names(), ", "))
	}
	return writeTo(*out, func(w *os.File) error {
		return exp.Write(w, c.loader.Snapshot())
	})
}

// exporters builds the registry of output projections for cfg.
func exporters(cfg *config.Config) *export.Registry {
	reg := export.NewRegistry()
	reg.Register(&export.CodeExporter{Comment: commentLeader(cfg.Language)})
	reg.Register(&export.HTMLExporter{Language: cfg.Language, Title: cfg.Title})
	return reg
}

func cmdHTML(args []string) error {
	fs := flag.NewFlagSet("html", flag.ExitOnError)
	out := fs.String("o", "", "output file (default: input with .html extension)")
	c, err := setup(fs, args)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = strings.TrimSuffix(c.file, filepath.Ext(c.file)) + ".html"
	}
	exp := &export.HTMLExporter{Language: c.cfg.Language, Title: c.cfg.Title}
	if err := writeTo(target, func(w *os.File) error {
		return exp.Write(w, c.loader.Snapshot())
	}); err != nil {
		return err
	}
	slog.Info("HTML documentation generated", "file", target)
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "HTTP listen address (default from config)")
	c, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		c.cfg.Server.Addr = *addr
	}

	if c.cfg.Server.LiveReload {
		c.loader.OnChange(func(snap *document.Snapshot) {
			slog.Info("document reloaded", "cells", len(snap.Cells), "diagnostics", len(snap.Diags))
		})
		stopWatch, err := c.loader.Watch()
		if err != nil {
			slog.Warn("document watcher unavailable (live reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	handler := api.New(c.loader, c.opts, &export.HTMLExporter{Language: c.cfg.Language, Title: c.cfg.Title})
	srv := &http.Server{
		Addr:         c.cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		slog.Info("preview server starting", "addr", c.cfg.Server.Addr, "file", c.file)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errC:
		return err
	case <-quit:
	}
	slog.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func initLogger(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func hasLiterateExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".lpmd", ".lit":
		return true
	}
	return false
}

// commentLeader picks the single-line comment syntax for the exported
// source file.
func commentLeader(lang string) string {
	switch lang {
	case "python", "ruby", "sh", "bash", "perl", "r", "yaml":
		return "#"
	default:
		return "//"
	}
}

// writeTo runs fn against the named file, or stdout when path is empty.
func writeTo(path string, fn func(*os.File) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
