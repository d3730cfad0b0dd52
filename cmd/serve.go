package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Benny93/degrees-go/internal/ingestion"
	"github.com/Benny93/degrees-go/internal/report"
	"github.com/Benny93/degrees-go/mcp"
)

// WatchCmd re-runs the report whenever the edge list changes.
type WatchCmd struct {
	File        string `arg:"" help:"Edge-list file to watch"`
	OutputFlags `embed:""`
}

// Run executes the watch command.
func (c *WatchCmd) Run(app *App) error {
	ctx, cancel := signalContext()
	defer cancel()

	if !app.Quiet {
		fmt.Fprintln(app.Err, "## Watch Mode")
		fmt.Fprintf(app.Err, "Watching %s for changes (Ctrl+C to stop)\n\n", c.File)
	}

	err := c.watch(ctx, app)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}

	if !app.Quiet {
		fmt.Fprintln(app.Err, "Watch mode stopped.")
	}
	return nil
}

// watch prints one report immediately and one per settled change.
func (c *WatchCmd) watch(ctx context.Context, app *App) error {
	c.render(ctx, app)
	return ingestion.WatchFile(ctx, c.File, app.Config.WatchDebounce, app.Logger, func(ctx context.Context) {
		c.render(ctx, app)
	})
}

// render logs failures instead of returning them so one bad save does not
// end watch mode.
func (c *WatchCmd) render(ctx context.Context, app *App) {
	source := SourceFlags{File: c.File}
	adj, err := source.load(ctx, app)
	if err != nil {
		app.Logger.Error("loading edge list", zap.Error(err))
		return
	}

	r, err := app.Engine.Report(ctx, adj)
	if err != nil {
		app.Logger.Error("running report", zap.Error(err))
		return
	}

	if err := report.Render(app.Out, r, report.Options{Format: c.Format, Color: app.Color}); err != nil {
		app.Logger.Error("rendering report", zap.Error(err))
	}
}

// MCPCmd starts the MCP server.
type MCPCmd struct {
	SourceFlags `embed:""`
}

// Run executes the mcp command.
func (c *MCPCmd) Run(app *App) error {
	ctx, cancel := signalContext()
	defer cancel()

	source, closeSource, err := c.source(app)
	if err != nil {
		return err
	}
	defer closeSource()

	server := mcp.NewServer(source, app.Engine, app.Logger)

	// stdout carries JSON-RPC only; logs go to stderr.
	return ignoreCanceled(server.Serve(ctx, app.In, app.Out))
}

// ServeCmd starts the MCP server with an optional metrics endpoint.
type ServeCmd struct {
	SourceFlags `embed:""`
	MetricsAddr string `help:"Expose Prometheus metrics on this address, overrides DEGREES_METRICS_ADDR"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(app *App) error {
	ctx, cancel := signalContext()
	defer cancel()

	source, closeSource, err := c.source(app)
	if err != nil {
		return err
	}
	defer closeSource()

	addr := c.MetricsAddr
	if addr == "" {
		addr = app.Config.MetricsAddr
	}
	if addr != "" {
		stop, err := startMetricsServer(addr, app.Logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	app.Logger.Info("starting MCP server")
	server := mcp.NewServer(source, app.Engine, app.Logger)
	return ignoreCanceled(server.Run(ctx, app.In, app.Out))
}

// startMetricsServer serves /metrics on addr until the returned stop
// function is called.
func startMetricsServer(addr string, logger *zap.Logger) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", zap.String("address", lis.Addr().String()))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
