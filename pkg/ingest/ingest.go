package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/relay/internal/logging"
)

// Pipeline walks a directory of markdown files, chunks them, embeds the
// chunks, and produces a searchable Index.
type Pipeline struct {
	embedder Embedder
	chunker  *Chunker
	logger   *slog.Logger
}

// PipelineOption configures the Pipeline.
type PipelineOption func(*Pipeline)

// WithChunker overrides the default chunker.
func WithChunker(c *Chunker) PipelineOption {
	return func(p *Pipeline) {
		p.chunker = c
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an ingestion pipeline over the given embedder.
func NewPipeline(embedder Embedder, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		embedder: embedder,
		chunker:  NewChunker(DefaultChunkSize, "\n"),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestDir walks root recursively, ingesting every .md file into a fresh
// index. Unreadable files abort the run.
func (p *Pipeline) IngestDir(ctx context.Context, root string) (*Index, error) {
	index := NewIndex()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		chunks := p.chunker.Split(string(data))
		if len(chunks) == 0 {
			p.logger.Debug("skipping empty document", "path", rel)
			return nil
		}

		vectors, err := p.embedder.Embed(ctx, chunks)
		if err != nil {
			return fmt.Errorf("embed %s: %w", rel, err)
		}
		if len(vectors) != len(chunks) {
			return fmt.Errorf("embed %s: got %d vectors for %d chunks", rel, len(vectors), len(chunks))
		}

		for i, chunk := range chunks {
			index.Add(Entry{Source: rel, Text: chunk, Embedding: vectors[i]})
		}
		p.logger.Info("document ingested", "path", rel, "chunks", len(chunks))
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("ingestion complete", "chunks", index.Len())
	return index, nil
}
