package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known texts to fixed vectors; unknown texts get a
// neutral vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (e *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0.5, 0.5, 0}
		}
	}
	return out, nil
}

func TestIndex_Search(t *testing.T) {
	ix := NewIndex()
	ix.Add(
		Entry{Source: "a.md", Text: "cats", Embedding: []float32{1, 0, 0}},
		Entry{Source: "b.md", Text: "dogs", Embedding: []float32{0, 1, 0}},
		Entry{Source: "c.md", Text: "fish", Embedding: []float32{0, 0, 1}},
	)

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"feline": {0.9, 0.1, 0},
	}}

	hits, err := ix.Search(context.Background(), embedder, "feline", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "cats", hits[0].Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestIndex_SearchEmpty(t *testing.T) {
	_, err := NewIndex().Search(context.Background(), &fakeEmbedder{}, "anything", 3)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestIndex_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	ix := NewIndex()
	ix.Add(Entry{Source: "a.md", Text: "cats", Embedding: []float32{1, 0, 0}})
	require.NoError(t, ix.Save(path))

	loaded, err := LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosine([]float32{1, 0}, []float32{1}), "mismatched dimensions")
	assert.Zero(t, cosine(nil, nil))
}

func TestPipeline_IngestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("alpha\nbeta"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "more.md"), []byte("gamma"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("skip me"), 0o644))

	embedder := &fakeEmbedder{}
	pipeline := NewPipeline(embedder)

	ix, err := pipeline.IngestDir(context.Background(), dir)
	require.NoError(t, err)

	// Both markdown files in one index, one embed call per document.
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 2, embedder.calls)
}

func TestPipeline_EmptyDocumentsSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), []byte("\n\n"), 0o644))

	embedder := &fakeEmbedder{}
	ix, err := NewPipeline(embedder).IngestDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, ix.Len())
	assert.Zero(t, embedder.calls)
}
