// Package mcp exposes playback sessions to AI agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/framelight/framelight"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
	"github.com/framelight/framelight/pkg/session"
)

// StateResponse is the structured result shared by every playback tool.
type StateResponse struct {
	SessionID string                 `json:"sessionId" jsonschema_description:"The playback session ID"`
	State     *domain.PrototypeState `json:"state" jsonschema_description:"The current playback state"`
}

// Server wraps a session manager and exposes it as an MCP server.
type Server struct {
	manager   *session.Manager
	source    ports.PrototypeSource
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(manager *session.Manager, source ports.PrototypeSource) *Server {
	s := &Server{
		manager:   manager,
		source:    source,
		mcpServer: server.NewMCPServer("framelight-mcp", strings.TrimSpace(framelight.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: start_session
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a new playback session at the prototype's start frame."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: get_state
	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get the current state of a playback session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The playback session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: trigger
	triggerTool := mcp.NewTool("trigger",
		mcp.WithDescription("Fire a trigger (click, hover_enter, press, ...) against the session's current frame."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The playback session ID")),
		mcp.WithString("trigger", mcp.Required(), mcp.Description("Trigger name, e.g. click")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(triggerTool, mcp.NewStructuredToolHandler(s.handleTrigger))

	// TOOL: go_back
	backTool := mcp.NewTool("go_back",
		mcp.WithDescription("Navigate one step back in the session's history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The playback session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleBack))

	// TOOL: reset
	resetTool := mcp.NewTool("reset",
		mcp.WithDescription("Reset the session to the start frame with default variables."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The playback session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: set_variable
	setVarTool := mcp.NewTool("set_variable",
		mcp.WithDescription("Assign a prototype variable in the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The playback session ID")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value, JSON-encoded or a plain string")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(setVarTool, mcp.NewStructuredToolHandler(s.handleSetVariable))

	// TOOL: get_prototype
	s.mcpServer.AddTool(mcp.NewTool("get_prototype",
		mcp.WithDescription("Get the full prototype definition (frames, interactions, variables) for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := s.describePrototype()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(doc)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, err := s.manager.Start(ctx)
	if err != nil {
		return StateResponse{}, fmt.Errorf("start failed: %w", err)
	}
	state, err := s.manager.Snapshot(ctx, id)
	if err != nil {
		return StateResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.manager.Snapshot(ctx, id)
	if err != nil {
		return StateResponse{}, fmt.Errorf("get_state failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

func (s *Server) handleTrigger(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, _ := args["session_id"].(string)
	trigger, _ := args["trigger"].(string)
	if trigger == "" {
		return StateResponse{}, fmt.Errorf("trigger is required")
	}

	state, err := s.manager.Trigger(ctx, id, domain.Trigger(trigger))
	if err != nil {
		return StateResponse{}, fmt.Errorf("trigger failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.manager.Back(ctx, id)
	if err != nil {
		return StateResponse{}, fmt.Errorf("go_back failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.manager.Reset(ctx, id)
	if err != nil {
		return StateResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

func (s *Server) handleSetVariable(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	id, _ := args["session_id"].(string)
	key, _ := args["key"].(string)
	raw, _ := args["value"].(string)
	if key == "" {
		return StateResponse{}, fmt.Errorf("key is required")
	}

	// Accept JSON-encoded values so agents can pass numbers and booleans;
	// anything that does not parse is treated as a plain string.
	var value any = raw
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		value = decoded
	}

	state, err := s.manager.SetVariable(ctx, id, key, value)
	if err != nil {
		return StateResponse{}, fmt.Errorf("set_variable failed: %w", err)
	}
	return StateResponse{SessionID: id, State: state}, nil
}

// prototypeDoc is the introspection shape for get_prototype and the
// framelight://prototype resource.
type prototypeDoc struct {
	StartFrame   string                          `json:"startFrame"`
	Frames       []domain.Frame                  `json:"frames"`
	Interactions map[string][]domain.Interaction `json:"interactions"`
	Variables    []domain.Variable               `json:"variables"`
}

func (s *Server) describePrototype() (*prototypeDoc, error) {
	frames, err := s.source.Frames()
	if err != nil {
		return nil, err
	}
	vars, err := s.source.Variables()
	if err != nil {
		return nil, err
	}
	doc := &prototypeDoc{
		StartFrame:   s.source.StartFrame(),
		Frames:       frames,
		Interactions: make(map[string][]domain.Interaction, len(frames)),
		Variables:    vars,
	}
	for _, frame := range frames {
		rules, err := s.source.Interactions(frame.ID)
		if err != nil {
			return nil, err
		}
		if len(rules) > 0 {
			doc.Interactions[frame.ID] = rules
		}
	}
	return doc, nil
}

func (s *Server) registerResources() {
	// EXPOSE: framelight://prototype
	s.mcpServer.AddResource(mcp.NewResource("framelight://prototype", "Prototype Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc, err := s.describePrototype()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect prototype: %w", err)
		}
		jsonBytes, _ := json.Marshal(doc)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "framelight://prototype",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
