// Package mcp exposes the translated action catalog as an MCP tool server,
// letting MCP clients call actions directly without an assistant run.
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

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/domain"
	"github.com/aretw0/relay/pkg/ports"
)

// Server wraps an action invoker and exposes catalog tools over MCP.
type Server struct {
	invoker   ports.ActionInvoker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds an MCP server registering one tool per catalog entry.
func NewServer(defs []domain.ToolDefinition, invoker ports.ActionInvoker, opts ...Option) *Server {
	s := &Server{
		invoker:   invoker,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("relay-mcp", strings.TrimSpace(relay.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools(defs)
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
		s.logger.Info("mcp server listening (sse)", "address", addr)
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools(defs []domain.ToolDefinition) {
	for _, def := range defs {
		def := def

		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			s.logger.Warn("skipping tool with unmarshalable schema", "tool", def.Name, "err", err)
			continue
		}

		tool := mcp.NewToolWithRawSchema(def.Name,
			fmt.Sprintf("Execute action %s via the action provider.", def.ActionID),
			schema,
		)
		s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			result, err := s.invoker.Execute(ctx, def.ActionID, args)
			if err != nil {
				s.logger.Error("action execution failed", "tool", def.Name, "action_id", def.ActionID, "err", err)
				return mcp.NewToolResultError(fmt.Sprintf("execute %s: %v", def.Name, err)), nil
			}
			return mcp.NewToolResultText(string(result)), nil
		})
	}
}
