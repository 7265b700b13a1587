package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// ErrEmptyIndex is returned when searching an index with no entries.
var ErrEmptyIndex = errors.New("ingest: index is empty")

// Entry is one embedded chunk in the index.
type Entry struct {
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Hit is a search result with its cosine similarity score.
type Hit struct {
	Entry
	Score float64
}

// Embedder produces vector embeddings for text batches.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is a flat cosine-similarity index, persisted as JSON. Suitable for
// the note-sized corpora this package targets.
type Index struct {
	entries []Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// LoadIndex reads a previously saved index from disk.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &Index{entries: entries}, nil
}

// Save writes the index to disk as JSON.
func (ix *Index) Save(path string) error {
	data, err := json.Marshal(ix.entries)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Add appends entries to the index.
func (ix *Index) Add(entries ...Entry) {
	ix.entries = append(ix.entries, entries...)
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Search embeds the query and returns the topK most similar entries,
// highest score first.
func (ix *Index) Search(ctx context.Context, embedder Embedder, query string, topK int) ([]Hit, error) {
	if len(ix.entries) == 0 {
		return nil, ErrEmptyIndex
	}

	vectors, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vectors[0]

	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		hits = append(hits, Hit{Entry: e, Score: cosine(queryVec, e.Embedding)})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
