// Package report renders analysis reports for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Benny93/degrees-go/internal/analysis"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const separator = "----------------"

// Options controls rendering.
type Options struct {
	// Format is FormatText or FormatJSON. Empty means FormatText.
	Format string

	// Color enables ANSI colors in text output.
	Color bool
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *analysis.Report, opts Options) error {
	if r == nil {
		return fmt.Errorf("rendering report: nil report")
	}

	switch opts.Format {
	case "", FormatText:
		return renderText(w, r, opts.Color)
	case FormatJSON:
		return RenderJSON(w, r)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// RenderJSON writes v as indented JSON followed by a newline.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func renderText(w io.Writer, r *analysis.Report, useColor bool) error {
	label := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgGreen)
	if useColor {
		label.EnableColor()
		value.EnableColor()
	} else {
		label.DisableColor()
		value.DisableColor()
	}

	trimmed := TrimDistribution(r.Distribution.Percentages)

	var b strings.Builder
	line := func(name, v string) {
		fmt.Fprintf(&b, "%s %s\n", label.Sprint(name+":"), value.Sprint(v))
	}

	line("Connectivity", FormatInts(r.Connectivity))
	b.WriteString(separator + "\n")
	line("Average Shortest Path Length", FormatFloat(r.AveragePathLength))
	b.WriteString(separator + "\n")
	line(fmt.Sprintf("Separation Distribution (up to %d degrees)", r.Diameter), FormatFloats(trimmed))
	b.WriteString(separator + "\n")
	line("Degree of Separation with the maximum percentage", strconv.Itoa(r.Distribution.PeakDegree))
	line("Maximum percentage of valid connections", FormatFloat(r.Distribution.PeakPercentage))
	line("Mean of Separations", FormatFloat(r.Statistics.Mean))
	line("Standard Deviation of Separations", FormatFloat(r.Statistics.StdDev))
	b.WriteString(separator + "\n")
	line("Graph", fmt.Sprintf("%d nodes, %d edges, %d isolated, diameter %d",
		r.Nodes, r.Edges, r.Isolated, r.Diameter))

	_, err := io.WriteString(w, b.String())
	return err
}

// TrimDistribution drops trailing zero percentages. The result shares the
// backing array of p.
func TrimDistribution(p []float64) []float64 {
	end := len(p)
	for end > 0 && p[end-1] == 0 {
		end--
	}
	return p[:end]
}

// FormatFloat formats f with the shortest exact representation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFloats formats a slice as [a, b, c].
func FormatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatInts formats a slice as [a, b, c].
func FormatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
