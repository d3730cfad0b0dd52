// Package mcp provides the MCP (Model Context Protocol) server for degrees-go.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/Benny93/degrees-go/internal/analysis"
	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/report"
	"github.com/Benny93/degrees-go/internal/storage"
)

// ServerName and ServerVersion identify the server during initialize.
const (
	ServerName    = "degrees-go"
	ServerVersion = "0.1.0"
)

// Tool names.
const (
	ToolReport       = "degrees_report"
	ToolConnectivity = "degrees_connectivity"
	ToolPathLength   = "degrees_path_length"
	ToolDistribution = "degrees_distribution"
	ToolStatistics   = "degrees_statistics"
)

// Resource URIs.
const (
	ResourceOverview = "degrees://overview"
	ResourceSchema   = "degrees://schema"
)

// GraphSource supplies the graph under analysis. Both storage backends and
// edge-list files satisfy it.
type GraphSource interface {
	LoadAdjacency(ctx context.Context) (graph.Adjacency, error)
	Info(ctx context.Context) (*storage.SnapshotInfo, error)
}

// Server represents the MCP server.
type Server struct {
	source GraphSource
	engine *analysis.Engine
	logger *zap.Logger
	impl   *mcp.Implementation
	server *mcp.Server
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server. A nil engine runs analyses with the
// engine defaults; a nil logger discards logs.
func NewServer(source GraphSource, engine *analysis.Engine, logger *zap.Logger) *Server {
	if engine == nil {
		engine = analysis.NewEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		source: source,
		engine: engine,
		logger: logger,
		impl: &mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}
	s.server = mcp.NewServer(s.impl, nil)
	s.register()

	return s
}

// register exposes every tool and resource through the SDK server.
func (s *Server) register() {
	for _, tool := range s.ListTools() {
		s.server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, s.toolHandler(tool.Name))
	}
	for _, res := range s.ListResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MimeType,
		}, s.resourceHandler)
	}
}

func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("decoding %s arguments: %w", name, err)
			}
		}

		text, err := s.CallTool(ctx, name, args)
		if err != nil {
			s.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func (s *Server) resourceHandler(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	text, err := s.ReadResource(ctx, uri)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "text/plain", Text: text},
		},
	}, nil
}

// Connect starts an SDK session on transport without blocking.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Serve runs a full MCP session, initialize handshake included, over
// newline-delimited JSON on in and out. It returns when in is exhausted or
// ctx is canceled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	err := s.server.Run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func emptyObject() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        ToolReport,
			Description: "Run every analysis and return the full separation report.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"format": {
						Type:        "string",
						Description: "Output format",
						Enum:        []any{report.FormatText, report.FormatJSON},
					},
				},
			},
		},
		{
			Name:        ToolConnectivity,
			Description: "Count the nodes reachable from each node, including the node itself. A count of 1 means the node is isolated.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"node": {Type: "integer", Description: "Only return the count for this node ID"},
				},
			},
		},
		{
			Name:        ToolPathLength,
			Description: "Average shortest path length over every reachable (start, node) pair.",
			InputSchema: emptyObject(),
		},
		{
			Name:        ToolDistribution,
			Description: "Percentage of node pairs at each degree of separation, with the peak degree.",
			InputSchema: emptyObject(),
		},
		{
			Name:        ToolStatistics,
			Description: "Mean and population standard deviation of all separations.",
			InputSchema: emptyObject(),
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         ResourceOverview,
			Name:        "Graph Overview",
			Description: "Source, node and edge counts of the loaded graph",
			MimeType:    "text/plain",
		},
		{
			URI:         ResourceSchema,
			Name:        "Analysis Schema",
			Description: "Description of the edge-list format and every analysis",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case ToolReport, ToolConnectivity, ToolPathLength, ToolDistribution, ToolStatistics:
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	adj, err := s.source.LoadAdjacency(ctx)
	if err != nil {
		return "", fmt.Errorf("loading graph: %w", err)
	}

	s.logger.Debug("tool call", zap.String("tool", name), zap.Int("nodes", adj.Len()))

	switch name {
	case ToolReport:
		format, _ := args["format"].(string)
		return s.handleReport(ctx, adj, format)
	case ToolConnectivity:
		return s.handleConnectivity(ctx, adj, args["node"])
	case ToolPathLength:
		return s.handlePathLength(ctx, adj)
	case ToolDistribution:
		return s.handleDistribution(ctx, adj)
	default:
		return s.handleStatistics(ctx, adj)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case ResourceOverview:
		return s.getOverview(ctx)
	case ResourceSchema:
		return getSchema(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Run answers line-delimited JSON-RPC requests from stdin without the
// initialize handshake that Serve enforces.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)
	// MCP stdio framing is one compact JSON message per line.

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if len(strings.TrimSpace(string(line))) > 0 {
			if resp := s.handleLine(ctx, line); resp != nil {
				if encErr := encoder.Encode(resp); encErr != nil {
					return encErr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// handleLine returns nil for notifications, which get no response.
func (s *Server) handleLine(ctx context.Context, line []byte) map[string]any {
	var req map[string]any
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("malformed request", zap.Error(err))
		return errorResponse(nil, -32700, "Parse error")
	}
	if _, hasID := req["id"]; !hasID {
		return nil
	}
	return s.handleRequest(ctx, req)
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "ping":
		return resultResponse(id, map[string]any{})
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return resultResponse(id, map[string]any{
		"protocolVersion": "2024-11-05",
		"serverInfo": map[string]any{
			"name":    s.impl.Name,
			"version": s.impl.Version,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{
				"listChanged": false,
			},
			"resources": map[string]any{
				"listChanged": false,
			},
		},
	})
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		_ = json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return resultResponse(id, map[string]any{"tools": toolList})
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		s.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
		return errorResponse(id, -32000, err.Error())
	}

	return resultResponse(id, map[string]any{
		"content": []map[string]any{
			{
				"type": "text",
				"text": result,
			},
		},
	})
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return resultResponse(id, map[string]any{"resources": resourceList})
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return resultResponse(id, map[string]any{
		"contents": []map[string]any{
			{
				"uri":      uri,
				"mimeType": "text/plain",
				"text":     content,
			},
		},
	})
}

// Tool Handlers

func (s *Server) handleReport(ctx context.Context, adj graph.Adjacency, format string) (string, error) {
	r, err := s.engine.Report(ctx, adj)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := report.Render(&sb, r, report.Options{Format: format}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (s *Server) handleConnectivity(ctx context.Context, adj graph.Adjacency, nodeArg any) (string, error) {
	connectivity, err := s.engine.Connectivity(ctx, adj)
	if err != nil {
		return "", err
	}

	if nodeArg == nil {
		return fmt.Sprintf("Connectivity: %s\n", report.FormatInts(connectivity)), nil
	}

	node, err := nodeID(nodeArg, adj)
	if err != nil {
		return "", err
	}

	c := connectivity[node]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Node %d reaches %d node(s) including itself.\n", node, c))
	if c == 1 {
		sb.WriteString("The node is isolated.\n")
	}
	return sb.String(), nil
}

func (s *Server) handlePathLength(ctx context.Context, adj graph.Adjacency) (string, error) {
	avg, err := s.engine.AveragePathLength(ctx, adj)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Average Shortest Path Length: %s\n", report.FormatFloat(avg)), nil
}

func (s *Server) handleDistribution(ctx context.Context, adj graph.Adjacency) (string, error) {
	dist, err := s.engine.SeparationDistribution(ctx, adj)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Separation Distribution (up to %d degrees): %s\n",
		dist.Diameter(), report.FormatFloats(report.TrimDistribution(dist.Percentages))))
	sb.WriteString(fmt.Sprintf("Degree of Separation with the maximum percentage: %d\n", dist.PeakDegree))
	sb.WriteString(fmt.Sprintf("Maximum percentage of valid connections: %s\n", report.FormatFloat(dist.PeakPercentage)))
	sb.WriteString(fmt.Sprintf("Total pairs: %d\n", dist.TotalPairs))
	return sb.String(), nil
}

func (s *Server) handleStatistics(ctx context.Context, adj graph.Adjacency) (string, error) {
	stats, err := s.engine.SeparationStatistics(ctx, adj)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mean of Separations: %s\n", report.FormatFloat(stats.Mean)))
	sb.WriteString(fmt.Sprintf("Standard Deviation of Separations: %s\n", report.FormatFloat(stats.StdDev)))
	sb.WriteString(fmt.Sprintf("Observations: %d\n", stats.Count))
	return sb.String(), nil
}

// nodeID converts a JSON number argument into an in-range node ID.
func nodeID(arg any, adj graph.Adjacency) (int, error) {
	f, ok := arg.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("node must be an integer: %w", graph.ErrInvalidInput)
	}
	if !adj.InRange(int(f)) {
		return 0, fmt.Errorf("node %v out of range [0, %d): %w", arg, adj.Len(), graph.ErrInvalidInput)
	}
	return int(f), nil
}

// Resource Handlers

func (s *Server) getOverview(ctx context.Context) (string, error) {
	info, err := s.source.Info(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Graph Overview\n\n")
	sb.WriteString(fmt.Sprintf("**Source:** %s\n", info.Source))
	sb.WriteString(fmt.Sprintf("**Nodes:** %d\n", info.Nodes))
	sb.WriteString(fmt.Sprintf("**Edges:** %d\n", info.Edges))
	if !info.IndexedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Indexed:** %s\n", info.IndexedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString("\n## Tools\n\n")
	for _, tool := range s.ListTools() {
		sb.WriteString(fmt.Sprintf("- `%s`: %s\n", tool.Name, tool.Description))
	}

	return sb.String(), nil
}

func getSchema() string {
	var sb strings.Builder
	sb.WriteString("# degrees-go Analysis Schema\n\n")
	sb.WriteString("## Input\n\n")
	sb.WriteString("One undirected edge per line as `source,target` with non-negative integer node IDs.\n")
	sb.WriteString("Node IDs index the adjacency rows directly, so the graph has max(ID)+1 nodes.\n")
	sb.WriteString("Self-loops and duplicate edges are dropped. Malformed lines are skipped.\n")
	sb.WriteString("\n## Analyses\n\n")
	sb.WriteString("| Analysis | Result | Notes |\n")
	sb.WriteString("|----------|--------|-------|\n")
	sb.WriteString("| `connectivity` | count per node | includes the node itself; 1 means isolated |\n")
	sb.WriteString("| `path_length` | float | mean of all finite distances, zero-length self-pairs included |\n")
	sb.WriteString("| `distribution` | percentage per degree | counts / (V·(V-1)/2); peak is the first maximum |\n")
	sb.WriteString("| `statistics` | mean, std dev | population standard deviation, clamped at 0 |\n")

	return sb.String()
}

// Helper functions

func resultResponse(id any, result map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
}

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
