package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/degrees-go/internal/analysis"
	"github.com/Benny93/degrees-go/internal/graph"
)

func sampleReport(t *testing.T) *analysis.Report {
	t.Helper()
	adj, err := graph.BuildAdjacency([]int{0, 1}, []int{1, 2})
	require.NoError(t, err)

	r, err := analysis.NewEngine(analysis.WithWorkers(1)).Report(context.Background(), adj)
	require.NoError(t, err)
	return r
}

func TestTrimDistribution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{"TrailingZeros", []float64{0, 50, 25, 0, 0}, []float64{0, 50, 25}},
		{"InnerZerosKept", []float64{0, 10, 0, 5}, []float64{0, 10, 0, 5}},
		{"AllZeros", []float64{0, 0, 0}, []float64{}},
		{"Empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TrimDistribution(tt.input)
			assert.Len(t, got, len(tt.expected))
			if len(tt.expected) > 0 {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), Options{Format: FormatText}))
	out := buf.String()

	assert.Contains(t, out, "Connectivity: [3, 3, 3]\n")
	assert.Contains(t, out, "Average Shortest Path Length: 0.8888888888888888\n")
	assert.Contains(t, out, "Separation Distribution (up to 2 degrees): [0, 133.3")
	assert.Contains(t, out, "Degree of Separation with the maximum percentage: 1\n")
	assert.Contains(t, out, "Mean of Separations: 0.8888888888888888\n")
	assert.Contains(t, out, "Standard Deviation of Separations:")
	assert.Contains(t, out, "Graph: 3 nodes, 2 edges, 0 isolated, diameter 2\n")
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestRender_TextColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), Options{Color: true}))

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), Options{Format: FormatJSON}))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.EqualValues(t, 3, decoded["nodes"])
	assert.EqualValues(t, 2, decoded["diameter"])
	assert.Contains(t, decoded, "connectivity")
	assert.Contains(t, decoded, "distribution")
	assert.Contains(t, decoded, "statistics")
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, Options{}))
	assert.Error(t, Render(&buf, sampleReport(t), Options{Format: "yaml"}))
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[]", FormatInts(nil))
	assert.Equal(t, "[1, 2, 3]", FormatInts([]int{1, 2, 3}))
	assert.Equal(t, "[0.5, 2]", FormatFloats([]float64{0.5, 2}))
	assert.Equal(t, "0.1", FormatFloat(0.1))
}
