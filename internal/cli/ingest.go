package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/relay/pkg/adapters/openai"
	"github.com/aretw0/relay/pkg/ingest"
)

// IngestOptions contains the configuration for the ingest command.
type IngestOptions struct {
	ConfigPath string
	Dir        string
	OutPath    string
	Query      string
	TopK       int
	Debug      bool
}

// RunIngest embeds the markdown documents under Dir into a JSON index.
func RunIngest(ctx context.Context, opts IngestOptions) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}

	logger := createLogger(opts.Debug)
	embedder := openai.NewEmbedder(cfg.OpenAIKey)

	pipeline := ingest.NewPipeline(embedder, ingest.WithLogger(logger))
	index, err := pipeline.IngestDir(ctx, opts.Dir)
	if err != nil {
		return err
	}

	if err := index.Save(opts.OutPath); err != nil {
		return err
	}
	printSystemMessage("Indexed %d chunks into %s.", index.Len(), opts.OutPath)
	return nil
}

// RunQuery searches a previously built index and prints the top hits.
func RunQuery(ctx context.Context, opts IngestOptions) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}

	index, err := ingest.LoadIndex(opts.OutPath)
	if err != nil {
		return err
	}

	embedder := openai.NewEmbedder(cfg.OpenAIKey)
	hits, err := index.Search(ctx, embedder, opts.Query, opts.TopK)
	if err != nil {
		return err
	}

	for _, hit := range hits {
		fmt.Printf("[%.3f] %s\n%s\n\n", hit.Score, hit.Source, hit.Text)
	}
	return nil
}
