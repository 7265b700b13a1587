package cli

import (
	"context"

	mcpadapter "github.com/aretw0/relay/pkg/adapters/mcp"
	"github.com/aretw0/relay/pkg/catalog"
)

// MCPOptions contains the configuration for the mcp command.
type MCPOptions struct {
	ConfigPath string
	Debug      bool
	SSEPort    int
}

// RunMCP exposes the translated action catalog as an MCP tool server, on
// stdio by default or over SSE when a port is given.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	client, err := actionsClient(ActionsOptions{ConfigPath: opts.ConfigPath, Debug: opts.Debug})
	if err != nil {
		return err
	}

	logger := createLogger(opts.Debug)
	translator := catalog.NewTranslator(client, catalog.WithLogger(logger))

	tools, err := translator.FetchAndTranslate(ctx)
	if err != nil {
		return err
	}

	server := mcpadapter.NewServer(tools, client, mcpadapter.WithLogger(logger))
	if opts.SSEPort > 0 {
		return server.ServeSSE(ctx, opts.SSEPort)
	}
	return server.ServeStdio()
}
