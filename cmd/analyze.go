package cmd

import (
	"context"
	"fmt"

	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/report"
)

// OutputFlags selects the output format.
type OutputFlags struct {
	Format string `short:"o" enum:"text,json" default:"text" help:"Output format (text|json)"`
}

func (o OutputFlags) json() bool {
	return o.Format == report.FormatJSON
}

// ReportCmd runs every analysis.
type ReportCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
}

// Run executes the report command.
func (c *ReportCmd) Run(app *App) error {
	ctx := context.Background()
	adj, err := c.load(ctx, app)
	if err != nil {
		return err
	}

	r, err := app.Engine.Report(ctx, adj)
	if err != nil {
		return fmt.Errorf("running report: %w", err)
	}

	return report.Render(app.Out, r, report.Options{Format: c.Format, Color: app.Color})
}

// ConnectivityCmd counts reachable nodes.
type ConnectivityCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
	Node        *int `help:"Only print the count for this node ID"`
}

// Run executes the connectivity command.
func (c *ConnectivityCmd) Run(app *App) error {
	ctx := context.Background()
	adj, err := c.load(ctx, app)
	if err != nil {
		return err
	}

	connectivity, err := app.Engine.Connectivity(ctx, adj)
	if err != nil {
		return fmt.Errorf("computing connectivity: %w", err)
	}

	if c.Node != nil {
		node := *c.Node
		if !adj.InRange(node) {
			return fmt.Errorf("node %d out of range [0, %d): %w", node, adj.Len(), graph.ErrInvalidInput)
		}
		if c.json() {
			return report.RenderJSON(app.Out, map[string]int{
				"node":         node,
				"degree":       adj.Degree(node),
				"connectivity": connectivity[node],
			})
		}
		fmt.Fprintf(app.Out, "Connectivity of node %d: %d (degree %d)\n", node, connectivity[node], adj.Degree(node))
		return nil
	}

	if c.json() {
		return report.RenderJSON(app.Out, map[string][]int{"connectivity": connectivity})
	}
	fmt.Fprintf(app.Out, "Connectivity: %s\n", report.FormatInts(connectivity))
	return nil
}

// PathLengthCmd prints the average shortest path length.
type PathLengthCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
}

// Run executes the path-length command.
func (c *PathLengthCmd) Run(app *App) error {
	ctx := context.Background()
	adj, err := c.load(ctx, app)
	if err != nil {
		return err
	}

	avg, err := app.Engine.AveragePathLength(ctx, adj)
	if err != nil {
		return fmt.Errorf("computing average path length: %w", err)
	}

	if c.json() {
		return report.RenderJSON(app.Out, map[string]float64{"average_path_length": avg})
	}
	fmt.Fprintf(app.Out, "Average Shortest Path Length: %s\n", report.FormatFloat(avg))
	return nil
}

// DistributionCmd prints the separation distribution.
type DistributionCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
	Full        bool `help:"Keep trailing zero percentages"`
}

// Run executes the distribution command.
func (c *DistributionCmd) Run(app *App) error {
	ctx := context.Background()
	adj, err := c.load(ctx, app)
	if err != nil {
		return err
	}

	dist, err := app.Engine.SeparationDistribution(ctx, adj)
	if err != nil {
		return fmt.Errorf("computing separation distribution: %w", err)
	}

	if !c.Full {
		dist.Percentages = report.TrimDistribution(dist.Percentages)
		dist.Counts = dist.Counts[:len(dist.Percentages)]
	}

	if c.json() {
		return report.RenderJSON(app.Out, dist)
	}
	fmt.Fprintf(app.Out, "Separation Distribution (up to %d degrees): %s\n",
		dist.Diameter(), report.FormatFloats(dist.Percentages))
	fmt.Fprintf(app.Out, "Degree of Separation with the maximum percentage: %d\n", dist.PeakDegree)
	fmt.Fprintf(app.Out, "Maximum percentage of valid connections: %s\n", report.FormatFloat(dist.PeakPercentage))
	return nil
}

// StatsCmd prints separation statistics.
type StatsCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
}

// Run executes the stats command.
func (c *StatsCmd) Run(app *App) error {
	ctx := context.Background()
	adj, err := c.load(ctx, app)
	if err != nil {
		return err
	}

	stats, err := app.Engine.SeparationStatistics(ctx, adj)
	if err != nil {
		return fmt.Errorf("computing separation statistics: %w", err)
	}

	if c.json() {
		return report.RenderJSON(app.Out, stats)
	}
	fmt.Fprintf(app.Out, "Mean of Separations: %s\n", report.FormatFloat(stats.Mean))
	fmt.Fprintf(app.Out, "Standard Deviation of Separations: %s\n", report.FormatFloat(stats.StdDev))
	return nil
}
