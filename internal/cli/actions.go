package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/relay/pkg/actions"
	"github.com/aretw0/relay/pkg/catalog"
)

// ActionsOptions contains the configuration for the actions subcommands.
type ActionsOptions struct {
	ConfigPath string
	Debug      bool
	JSON       bool
}

// RunActionsCheck validates the configured action provider credential.
func RunActionsCheck(ctx context.Context, opts ActionsOptions) error {
	client, err := actionsClient(opts)
	if err != nil {
		return err
	}

	if err := client.Check(ctx); err != nil {
		return fmt.Errorf("credential rejected: %w", err)
	}
	printSystemMessage("Credential OK.")
	return nil
}

// RunActionsList prints the exposed actions as reported by the provider.
func RunActionsList(ctx context.Context, opts ActionsOptions) error {
	client, err := actionsClient(opts)
	if err != nil {
		return err
	}

	exposed, err := client.ListExposed(ctx)
	if err != nil {
		return err
	}

	if opts.JSON {
		return json.NewEncoder(os.Stdout).Encode(exposed)
	}

	if len(exposed) == 0 {
		printSystemMessage("No actions exposed. Enable some at your action provider.")
		return nil
	}
	for _, a := range exposed {
		fmt.Printf("%-28s %-36s %s\n", a.OperationID, a.ID, a.Description)
	}
	return nil
}

// RunActionsTools prints the tool definitions translated from the catalog,
// exactly as an assistant would receive them.
func RunActionsTools(ctx context.Context, opts ActionsOptions) error {
	client, err := actionsClient(opts)
	if err != nil {
		return err
	}

	logger := createLogger(opts.Debug)
	translator := catalog.NewTranslator(client, catalog.WithLogger(logger))

	tools, err := translator.FetchAndTranslate(ctx)
	if err != nil {
		return err
	}

	if opts.JSON {
		return json.NewEncoder(os.Stdout).Encode(tools)
	}

	for _, t := range tools {
		params, _ := json.Marshal(t.Parameters)
		fmt.Printf("%-28s %-36s %s\n", t.Name, t.ActionID, params)
	}
	return nil
}

func actionsClient(opts ActionsOptions) (*actions.Client, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.ActionsKey == "" {
		return nil, fmt.Errorf("actions api key is required (set RELAY_ACTIONS_KEY)")
	}

	logger := createLogger(opts.Debug)
	return actions.NewClient(cfg.ActionsURL, cfg.ActionsKey, actions.WithLogger(logger)), nil
}
