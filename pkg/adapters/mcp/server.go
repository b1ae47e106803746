package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TreeURI is the resource that exposes the visible rows.
const TreeURI = "checktree://tree"

// Browser is the part of checktree.Browser the MCP tools drive.
type Browser interface {
	Rows() []checktree.Node
	Node(id domain.NodeID) (checktree.Node, error)
	NodeFor(path string) (domain.NodeID, error)
	Toggle(ctx context.Context, id domain.NodeID) error
	SetChecked(ctx context.Context, id domain.NodeID, checked bool) error
	SetEnabled(id domain.NodeID, enable bool) error
	SetPreset(ctx context.Context, id domain.NodeID, category, name string) error
	SetFilter(filter string)
	Filter() string
	Packs() []domain.Pack
}

// TreeResponse is the structured result of tree-shaped tools.
type TreeResponse struct {
	Filter string           `json:"filter" jsonschema_description:"The active filter"`
	Rows   []checktree.Node `json:"rows" jsonschema_description:"Visible rows, top to bottom"`
}

// NodeResponse is the structured result of tools acting on one node.
type NodeResponse struct {
	Node checktree.Node `json:"node" jsonschema_description:"The node after the change"`
}

// Server exposes a Browser as an MCP server.
type Server struct {
	browser   Browser
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(b Browser) *Server {
	s := &Server{
		browser:   b,
		mcpServer: server.NewMCPServer("checktree-mcp", strings.TrimSpace(checktree.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func targetOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("node_id", mcp.Description("Tree node ID (takes precedence over path)")),
		mcp.WithString("path", mcp.Description("Graphic pack path, e.g. Enhancements/Bloom")),
	}
}

func (s *Server) registerTools() {
	// TOOL: list_tree
	s.mcpServer.AddTool(mcp.NewTool("list_tree",
		mcp.WithDescription("List the visible rows of the graphic pack tree."),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleListTree))

	// TOOL: list_packs
	s.mcpServer.AddTool(mcp.NewTool("list_packs",
		mcp.WithDescription("List every loaded graphic pack, including filtered-out ones."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.browser.Packs())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_node
	s.mcpServer.AddTool(mcp.NewTool("get_node",
		append(targetOptions(),
			mcp.WithDescription("Describe one node, visible or not."),
			mcp.WithOutputSchema[NodeResponse](),
		)...,
	), mcp.NewStructuredToolHandler(s.handleGetNode))

	// TOOL: toggle_node
	s.mcpServer.AddTool(mcp.NewTool("toggle_node",
		append(targetOptions(),
			mcp.WithDescription("Toggle a checkbox as a mouse click would, notifying listeners."),
			mcp.WithOutputSchema[NodeResponse](),
		)...,
	), mcp.NewStructuredToolHandler(s.handleToggle))

	// TOOL: check_node
	s.mcpServer.AddTool(mcp.NewTool("check_node",
		append(targetOptions(),
			mcp.WithDescription("Set a checkbox value directly, without notifying listeners."),
			mcp.WithBoolean("checked", mcp.Required(), mcp.Description("The new value")),
			mcp.WithOutputSchema[NodeResponse](),
		)...,
	), mcp.NewStructuredToolHandler(s.handleCheck))

	// TOOL: set_enabled
	s.mcpServer.AddTool(mcp.NewTool("set_enabled",
		append(targetOptions(),
			mcp.WithDescription("Enable or disable a node for interaction."),
			mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("Whether the node accepts input")),
			mcp.WithOutputSchema[NodeResponse](),
		)...,
	), mcp.NewStructuredToolHandler(s.handleSetEnabled))

	// TOOL: set_preset
	s.mcpServer.AddTool(mcp.NewTool("set_preset",
		append(targetOptions(),
			mcp.WithDescription("Choose one of a pack's presets. The choice is saved even while the pack is disabled."),
			mcp.WithString("category", mcp.Description("Preset category; empty for the pack's unnamed category")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Preset name")),
			mcp.WithOutputSchema[NodeResponse](),
		)...,
	), mcp.NewStructuredToolHandler(s.handleSetPreset))

	// TOOL: set_filter
	s.mcpServer.AddTool(mcp.NewTool("set_filter",
		mcp.WithDescription("Rebuild the tree showing only packs matching the filter. Empty shows all."),
		mcp.WithString("filter", mcp.Description("Case-insensitive path or title ID fragment")),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetFilter))
}

func (s *Server) resolve(args map[string]interface{}) (domain.NodeID, error) {
	if id, _ := args["node_id"].(string); id != "" {
		return domain.NodeID(id), nil
	}
	if path, _ := args["path"].(string); path != "" {
		return s.browser.NodeFor(path)
	}
	return "", errors.New("either node_id or path is required")
}

func (s *Server) tree() TreeResponse {
	return TreeResponse{Filter: s.browser.Filter(), Rows: s.browser.Rows()}
}

func (s *Server) describe(id domain.NodeID) (NodeResponse, error) {
	n, err := s.browser.Node(id)
	if err != nil {
		return NodeResponse{}, err
	}
	return NodeResponse{Node: n}, nil
}

func (s *Server) handleListTree(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	return s.tree(), nil
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResponse, error) {
	id, err := s.resolve(args)
	if err != nil {
		return NodeResponse{}, err
	}
	return s.describe(id)
}

func (s *Server) handleToggle(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResponse, error) {
	id, err := s.resolve(args)
	if err != nil {
		return NodeResponse{}, err
	}
	if err := s.browser.Toggle(ctx, id); err != nil {
		return NodeResponse{}, fmt.Errorf("toggle failed: %w", err)
	}
	return s.describe(id)
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResponse, error) {
	id, err := s.resolve(args)
	if err != nil {
		return NodeResponse{}, err
	}
	checked, ok := args["checked"].(bool)
	if !ok {
		return NodeResponse{}, errors.New("checked must be a boolean")
	}
	if err := s.browser.SetChecked(ctx, id, checked); err != nil {
		return NodeResponse{}, fmt.Errorf("check failed: %w", err)
	}
	return s.describe(id)
}

func (s *Server) handleSetEnabled(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResponse, error) {
	id, err := s.resolve(args)
	if err != nil {
		return NodeResponse{}, err
	}
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return NodeResponse{}, errors.New("enabled must be a boolean")
	}
	if err := s.browser.SetEnabled(id, enabled); err != nil {
		return NodeResponse{}, fmt.Errorf("set enabled failed: %w", err)
	}
	return s.describe(id)
}

func (s *Server) handleSetPreset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResponse, error) {
	id, err := s.resolve(args)
	if err != nil {
		return NodeResponse{}, err
	}
	name, _ := args["name"].(string)
	if name == "" {
		return NodeResponse{}, errors.New("name is required")
	}
	category, _ := args["category"].(string)
	if err := s.browser.SetPreset(ctx, id, category, name); err != nil {
		return NodeResponse{}, fmt.Errorf("set preset failed: %w", err)
	}
	return s.describe(id)
}

func (s *Server) handleSetFilter(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	filter, _ := args["filter"].(string)
	s.browser.SetFilter(filter)
	return s.tree(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Visible Graphic Pack Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.tree())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tree: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
