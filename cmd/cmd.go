// Package cmd provides CLI command implementations for degrees-go.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Benny93/degrees-go/internal/analysis"
	"github.com/Benny93/degrees-go/internal/config"
	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/ingestion"
	"github.com/Benny93/degrees-go/internal/logging"
	"github.com/Benny93/degrees-go/internal/storage"
	"github.com/Benny93/degrees-go/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App carries the shared runtime every command receives.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Engine *analysis.Engine

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Color enables ANSI colors on Out.
	Color bool

	// Quiet suppresses progress and confirmation chatter.
	Quiet bool
}

// dataDir returns the index directory.
func (a *App) dataDir() string {
	return a.Config.DataDir
}

// success prints a green status line.
func (a *App) success(format string, args ...any) {
	c := color.New(color.FgGreen)
	if a.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(a.Out, format+"\n", args...)
}

// progress returns a callback that redraws the current phase on Err.
func (a *App) progress() ingestion.ProgressCallback {
	if a.Quiet {
		return nil
	}
	return func(phase string, pct float64) {
		fmt.Fprintf(a.Err, "\r\033[K%s (%.0f%%)", phase, pct*100)
	}
}

// SourceFlags selects the graph a command analyzes.
type SourceFlags struct {
	File    string `arg:"" optional:"" help:"Edge-list file with one source,target pair per line"`
	Indexed bool   `help:"Analyze the indexed snapshot instead of a file"`
}

// load returns the adjacency structure named by the flags.
func (s *SourceFlags) load(ctx context.Context, app *App) (graph.Adjacency, error) {
	switch {
	case s.Indexed && s.File != "":
		return nil, errors.New("pass either an edge-list file or --indexed, not both")
	case s.Indexed:
		store, err := openIndex(app, true)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		adj, err := store.LoadAdjacency(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading index: %w", err)
		}
		return adj, nil
	case s.File == "":
		return nil, errors.New("edge-list file required (or use --indexed)")
	}

	adj, result, err := ingestion.LoadGraph(ctx, s.File, nil, nil)
	if err != nil {
		return nil, err
	}
	if result.Skipped > 0 {
		app.Logger.Warn("skipped malformed lines",
			zap.String("file", s.File),
			zap.Int("skipped", result.Skipped),
			zap.Int("lines", result.Lines),
		)
	}
	app.Logger.Debug("graph loaded",
		zap.String("file", s.File),
		zap.Int("nodes", result.Nodes),
		zap.Int("edges", result.UniqueEdges),
	)
	return adj, nil
}

// source returns a long-lived graph source for server commands. The returned
// closer releases any storage it opened.
func (s *SourceFlags) source(app *App) (mcp.GraphSource, func(), error) {
	switch {
	case s.Indexed && s.File != "":
		return nil, nil, errors.New("pass either an edge-list file or --indexed, not both")
	case s.Indexed:
		store, err := openIndex(app, true)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case s.File == "":
		return nil, nil, errors.New("edge-list file required (or use --indexed)")
	}
	return ingestion.NewFileSource(s.File), func() {}, nil
}

// Helper functions

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-osSignalChannel():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func openIndex(app *App, readOnly bool) (*storage.BadgerBackend, error) {
	dbPath := filepath.Join(app.dataDir(), "badger")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found at %s. Run 'degrees-go index <file>' first: %w",
			app.dataDir(), storage.ErrNotIndexed)
	}

	store := storage.NewBadgerBackend()
	if err := store.Initialize(dbPath, readOnly); err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	return store, nil
}

// CLI is the root Kong command structure.
type CLI struct {
	Version   kong.VersionFlag `help:"Show version information"`
	Verbose   bool             `short:"v" xor:"verbosity" help:"Enable debug logging"`
	Quiet     bool             `short:"q" xor:"verbosity" help:"Suppress non-essential output"`
	LogFormat string           `help:"Log format (text|json), overrides DEGREES_LOG_FORMAT"`
	Workers   int              `default:"-1" help:"BFS goroutines per sweep (0 = all CPUs), overrides DEGREES_WORKERS"`
	NoColor   bool             `help:"Disable colored output"`
	DataDir   string           `help:"Index directory, overrides DEGREES_DATA_DIR"`
	EnvFile   string           `default:".env" help:"Environment file to load before reading DEGREES_* variables"`

	// Commands
	Report       ReportCmd       `cmd:"" help:"Run every analysis and print the full report"`
	Connectivity ConnectivityCmd `cmd:"" help:"Count nodes reachable from each node"`
	PathLength   PathLengthCmd   `cmd:"" name:"path-length" help:"Average shortest path length"`
	Distribution DistributionCmd `cmd:"" help:"Separation distribution and its peak"`
	Stats        StatsCmd        `cmd:"" help:"Mean and standard deviation of separations"`
	Index        IndexCmd        `cmd:"" help:"Snapshot an edge list into the local index"`
	Status       StatusCmd       `cmd:"" help:"Show index status"`
	Clean        CleanCmd        `cmd:"" help:"Delete the local index"`
	Watch        WatchCmd        `cmd:"" help:"Re-run the report whenever the edge list changes"`
	Setup        SetupCmd        `cmd:"" help:"Configure MCP for Claude Code / Cursor / Qwen"`
	MCP          MCPCmd          `cmd:"" help:"Start MCP server (stdio transport)"`
	Serve        ServeCmd        `cmd:"" help:"Start MCP server with optional metrics endpoint"`

	in  io.Reader `kong:"-"`
	out io.Writer `kong:"-"`
	err io.Writer `kong:"-"`
}

// NewCLI creates a new CLI instance bound to the process streams.
func NewCLI() *CLI {
	return &CLI{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// newApp resolves configuration and builds the shared runtime.
func (c *CLI) newApp() (*App, error) {
	cfg, err := config.Load(c.EnvFile)
	if err != nil {
		return nil, err
	}

	if c.Workers >= 0 {
		cfg.Workers = c.Workers
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	switch {
	case c.Verbose:
		cfg.LogLevel = "debug"
	case c.Quiet:
		cfg.LogLevel = "warn"
	}

	logCfg := logging.DefaultConfig()
	if cfg.LogFormat != "" {
		logCfg.Format = cfg.LogFormat
	}
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	logCfg.Output = c.err

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	if c.NoColor {
		color.NoColor = true
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Engine: analysis.NewEngine(
			analysis.WithWorkers(cfg.Workers),
			analysis.WithLogger(logger),
		),
		In:    c.in,
		Out:   c.out,
		Err:   c.err,
		Color: !color.NoColor,
		Quiet: c.Quiet,
	}, nil
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.err == nil {
		c.err = os.Stderr
	}

	parser, err := kong.New(c,
		kong.Name("degrees-go"),
		kong.Description("Degrees of separation analytics for undirected graphs"),
		kong.UsageOnError(),
		kong.Writers(c.out, c.err),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return fmt.Errorf("building command line: %w", err)
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	app, err := c.newApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	return kongCtx.Run(app)
}
