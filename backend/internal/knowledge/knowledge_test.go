package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

func TestChunkText_SmallDocumentSingleChunk(t *testing.T) {
	chunks := ChunkText("First paragraph.\n\nSecond paragraph.")

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Contains(t, chunks[0].Content, "First paragraph.")
	assert.Contains(t, chunks[0].Content, "Second paragraph.")
}

func TestChunkText_SplitsAtTokenCap(t *testing.T) {
	// Each paragraph is ~1000 tokens, so two never fit in one chunk.
	para := strings.Repeat("word ", 800)
	chunks := ChunkText(para + "\n\n" + para + "\n\n" + para)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.LessOrEqual(t, chunk.TokenCount, chunkSizeTokens+chunkSizeTokens/10)
	}
}

func TestChunkText_OversizedParagraphSplitsBySentence(t *testing.T) {
	sentence := strings.Repeat("alpha beta gamma ", 50) + "end"
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString(sentence)
		b.WriteString(". ")
	}

	chunks := ChunkText(b.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Content)
	}
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, ChunkText(""))
	assert.Empty(t, ChunkText("\n\n  \n\n"))
}

func TestExtractText_PlainTextPassthrough(t *testing.T) {
	text := "Just a plain document.\n\nWith two paragraphs."
	assert.Equal(t, text, ExtractText(text))
}

func TestExtractText_StripsHTML(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style></head>
	<body><h1>Deposit SOP</h1><script>alert("x")</script>
	<p>Always confirm the amount first.</p></body></html>`

	text := ExtractText(html)

	assert.Contains(t, text, "Deposit SOP")
	assert.Contains(t, text, "Always confirm the amount first.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// Degenerate inputs score zero rather than dividing by it.
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}

type fakeChunkStore struct {
	stored  []Chunk
	deleted []string
	chunks  []StoredChunk
}

func (f *fakeChunkStore) StoreChunks(ctx context.Context, doc Document, chunks []Chunk, embeddings [][]float64) error {
	f.stored = append(f.stored, chunks...)
	return nil
}

func (f *fakeChunkStore) DeleteDocument(ctx context.Context, name string) (int, error) {
	f.deleted = append(f.deleted, name)
	return 0, nil
}

func (f *fakeChunkStore) ListDocuments(ctx context.Context) ([]Document, error) {
	return nil, nil
}

func (f *fakeChunkStore) AllChunks(ctx context.Context) ([]StoredChunk, error) {
	return f.chunks, nil
}

type fakeEmbedder struct {
	vec []float64
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func TestServiceStoreDocument(t *testing.T) {
	store := &fakeChunkStore{}
	svc := NewService(store, &fakeEmbedder{vec: []float64{1, 0}})

	count, err := svc.StoreDocument(context.Background(), "deposit-sop", "how to deposit", "Step one.\n\nStep two.", "boss")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.stored, 1)
}

func TestServiceStoreDocument_EmptyContent(t *testing.T) {
	svc := NewService(&fakeChunkStore{}, &fakeEmbedder{vec: []float64{1, 0}})

	_, err := svc.StoreDocument(context.Background(), "empty", "", "   ", "boss")
	assert.Error(t, err)
}

func TestServiceSearch_FiltersAndRanks(t *testing.T) {
	store := &fakeChunkStore{chunks: []StoredChunk{
		{DocumentName: "a", Content: "close match", Embedding: []float64{0.9, 0.1}},
		{DocumentName: "b", Content: "exact match", Embedding: []float64{1, 0}},
		{DocumentName: "c", Content: "unrelated", Embedding: []float64{0, 1}},
	}}
	svc := NewService(store, &fakeEmbedder{vec: []float64{1, 0}})

	results, err := svc.Search(context.Background(), "how do deposits work", 5)
	require.NoError(t, err)

	// The orthogonal chunk falls below the threshold; best match first.
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].DocumentName)
	assert.Equal(t, "a", results[1].DocumentName)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestServiceReplaceDocument_DeletesFirst(t *testing.T) {
	store := &fakeChunkStore{}
	svc := NewService(store, &fakeEmbedder{vec: []float64{1, 0}})

	_, err := svc.ReplaceDocument(context.Background(), "sop", "", "New version.", "boss")
	require.NoError(t, err)
	assert.Equal(t, []string{"sop"}, store.deleted)
}
