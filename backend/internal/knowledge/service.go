package knowledge

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"shiftbot/backend/pkg/logger"
)

const (
	// defaultSearchLimit caps search results handed to the model.
	defaultSearchLimit = 5

	// scoreThreshold drops chunks that are only vaguely related.
	scoreThreshold = 0.5
)

// SearchResult is one relevant chunk with its similarity score.
type SearchResult struct {
	DocumentName string
	Description  string
	Content      string
	ChunkIndex   int
	Similarity   float64
}

// chunkStore is the repository surface the service needs.
type chunkStore interface {
	StoreChunks(ctx context.Context, doc Document, chunks []Chunk, embeddings [][]float64) error
	DeleteDocument(ctx context.Context, name string) (int, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	AllChunks(ctx context.Context) ([]StoredChunk, error)
}

// embedder is the embedding surface the service needs.
type embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Service ties chunking, embedding and graph storage together.
type Service struct {
	repo     chunkStore
	embedder embedder
	logger   *zap.Logger
}

// NewService creates a knowledge base service.
func NewService(repo chunkStore, emb embedder) *Service {
	return &Service{
		repo:     repo,
		embedder: emb,
		logger:   logger.Get(),
	}
}

// StoreDocument chunks, embeds and stores a document, returning the
// number of chunks stored.
func (s *Service) StoreDocument(ctx context.Context, name, description, content, uploadedBy string) (int, error) {
	text := ExtractText(content)
	chunks := ChunkText(text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %q has no content to store", name)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	doc := Document{
		Name:        name,
		Description: description,
		UploadedBy:  uploadedBy,
	}
	if err := s.repo.StoreChunks(ctx, doc, chunks, embeddings); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// ReplaceDocument drops any existing version of the document before
// storing the new one.
func (s *Service) ReplaceDocument(ctx context.Context, name, description, content, uploadedBy string) (int, error) {
	if _, err := s.repo.DeleteDocument(ctx, name); err != nil {
		// A missing previous version is fine; anything else is not.
		s.logger.Debug("No previous version to replace", zap.String("name", name))
	}
	return s.StoreDocument(ctx, name, description, content, uploadedBy)
}

// DeleteDocument removes a document and returns its chunk count.
func (s *Service) DeleteDocument(ctx context.Context, name string) (int, error) {
	return s.repo.DeleteDocument(ctx, name)
}

// ListDocuments returns all stored documents.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.ListDocuments(ctx)
}

// Search embeds the query and returns the most similar chunks, best
// first, filtered by the score threshold.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	queryVec := embeddings[0]

	chunks, err := s.repo.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, chunk := range chunks {
		score := cosineSimilarity(queryVec, chunk.Embedding)
		if score < scoreThreshold {
			continue
		}
		results = append(results, SearchResult{
			DocumentName: chunk.DocumentName,
			Description:  chunk.Description,
			Content:      chunk.Content,
			ChunkIndex:   chunk.Index,
			Similarity:   score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}

	s.logger.Debug("Knowledge search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}
