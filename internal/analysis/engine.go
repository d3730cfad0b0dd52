package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/metrics"
)

// Analysis names, used as metric labels and log fields.
const (
	NameConnectivity = "connectivity"
	NamePathLength   = "path_length"
	NameDistribution = "distribution"
	NameStatistics   = "statistics"
)

// Engine runs the all-sources analyses.
//
// The zero value is usable: it sweeps with GOMAXPROCS workers and discards
// logs. Every accumulator is integer-valued and merged after the sweep, so
// results do not depend on the worker count.
type Engine struct {
	// Workers is the number of goroutines per sweep. Zero or negative means
	// runtime.GOMAXPROCS(0); 1 runs sequentially.
	Workers int

	// Logger receives debug timings. Nil discards them.
	Logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of sweep goroutines.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.Workers = n }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.Logger = logger }
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// workerCount clamps the configured worker count to [1, nodes].
func (e *Engine) workerCount(nodes int) int {
	w := e.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, nodes))
}

// sweep runs ShortestPaths from every node of adj. Worker w handles the
// starts w, w+workers, w+2·workers, ... and observe is only ever called for a
// given w from one goroutine.
func (e *Engine) sweep(ctx context.Context, name string, adj graph.Adjacency, workers int,
	observe func(worker, start int, dist []int)) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for start := w; start < len(adj); start += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				observe(w, start, ShortestPaths(adj, start))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	metrics.BFSRunsTotal.WithLabelValues(name).Add(float64(len(adj)))
	return nil
}

// track guards against empty graphs and records timing for one analysis.
func (e *Engine) track(name string, adj graph.Adjacency, run func() error) error {
	if len(adj) == 0 {
		metrics.AnalysisErrorsTotal.WithLabelValues(name, "empty_graph").Inc()
		return ErrEmptyGraph
	}

	started := time.Now()
	if err := run(); err != nil {
		reason := "failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reason = "canceled"
		}
		metrics.AnalysisErrorsTotal.WithLabelValues(name, reason).Inc()
		return fmt.Errorf("%s: %w", name, err)
	}

	elapsed := time.Since(started)
	metrics.AnalysisDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	e.logger().Debug("analysis complete",
		zap.String("analysis", name),
		zap.Int("nodes", len(adj)),
		zap.Int("workers", e.workerCount(len(adj))),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

var sequential = &Engine{Workers: 1}

// Connectivity counts, for every node in ID order, the nodes reachable from
// it including itself.
func Connectivity(adj graph.Adjacency) ([]int, error) {
	return sequential.Connectivity(context.Background(), adj)
}

// AveragePathLength returns the mean of all finite BFS distances.
func AveragePathLength(adj graph.Adjacency) (float64, error) {
	return sequential.AveragePathLength(context.Background(), adj)
}

// SeparationDistribution returns the percentage of node pairs at each degree
// of separation.
func SeparationDistribution(adj graph.Adjacency) (*Distribution, error) {
	return sequential.SeparationDistribution(context.Background(), adj)
}

// SeparationStatistics returns the mean and population standard deviation of
// all finite BFS distances.
func SeparationStatistics(adj graph.Adjacency) (Statistics, error) {
	return sequential.SeparationStatistics(context.Background(), adj)
}
