package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "shiftbot/backend/pkg/errors"
	"shiftbot/backend/pkg/logger"
)

// Document is a stored SOP document's metadata.
type Document struct {
	Name        string
	Description string
	UploadedBy  string
	UploadedAt  time.Time
	ChunkCount  int
}

// StoredChunk is one chunk fetched back out of the graph, embedding
// included, ready for similarity scoring.
type StoredChunk struct {
	DocumentName string
	Description  string
	Content      string
	Index        int
	Embedding    []float64
}

// Repository stores documents and their embedded chunks in Neo4j.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository connects to Neo4j and verifies connectivity.
func NewRepository(ctx context.Context, uri, username, password string) (*Repository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, apperrors.NewKnowledgeConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, apperrors.NewKnowledgeConnectionFailed(uri, err)
	}

	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}, nil
}

// Close closes the Neo4j driver connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// StoreChunks persists a document node and its chunks. Chunks and
// embeddings must be parallel slices.
func (r *Repository) StoreChunks(ctx context.Context, doc Document, chunks []Chunk, embeddings [][]float64) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	chunkParams := make([]map[string]interface{}, len(chunks))
	for i, chunk := range chunks {
		chunkParams[i] = map[string]interface{}{
			"id":          uuid.New().String(),
			"index":       chunk.Index,
			"content":     chunk.Content,
			"token_count": chunk.TokenCount,
			"embedding":   embeddings[i],
		}
	}

	query := `
		MERGE (d:Document {name: $name})
		SET d.description = $description,
		    d.uploaded_by = $uploadedBy,
		    d.uploaded_at = datetime($uploadedAt)
		WITH d
		UNWIND $chunks AS chunk
		CREATE (c:Chunk {
			id: chunk.id,
			index: chunk.index,
			content: chunk.content,
			token_count: chunk.token_count,
			embedding: chunk.embedding
		})
		MERGE (d)-[:HAS_CHUNK]->(c)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"name":        doc.Name,
		"description": doc.Description,
		"uploadedBy":  doc.UploadedBy,
		"uploadedAt":  time.Now().UTC().Format(time.RFC3339),
		"chunks":      chunkParams,
	})
	if err != nil {
		return fmt.Errorf("failed to store document chunks: %w", err)
	}

	r.logger.Info("Document stored",
		zap.String("name", doc.Name),
		zap.Int("chunks", len(chunks)),
	)
	return nil
}

// DeleteDocument removes a document and all of its chunks, returning
// how many chunks were deleted.
func (r *Repository) DeleteDocument(ctx context.Context, name string) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (d:Document {name: $name})
		OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
		WITH d, collect(c) AS chunks
		FOREACH (c IN chunks | DETACH DELETE c)
		DETACH DELETE d
		RETURN size(chunks) AS deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"name": name})
	if err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}

	if !result.Next(ctx) {
		return 0, apperrors.NewDocumentNotFound(name)
	}

	deleted := 0
	if v, ok := result.Record().Get("deleted"); ok {
		if n, ok := v.(int64); ok {
			deleted = int(n)
		}
	}

	r.logger.Info("Document deleted",
		zap.String("name", name),
		zap.Int("chunks", deleted),
	)
	return deleted, nil
}

// ListDocuments returns all stored documents, newest first.
func (r *Repository) ListDocuments(ctx context.Context) ([]Document, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (d:Document)
		OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
		RETURN d.name AS name,
		       d.description AS description,
		       d.uploaded_by AS uploaded_by,
		       toString(d.uploaded_at) AS uploaded_at,
		       count(c) AS chunk_count
		ORDER BY d.uploaded_at DESC
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var docs []Document
	for result.Next(ctx) {
		record := result.Record()
		doc := Document{
			Name:        recordString(record, "name"),
			Description: recordString(record, "description"),
			UploadedBy:  recordString(record, "uploaded_by"),
		}
		if raw := recordString(record, "uploaded_at"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				doc.UploadedAt = t
			}
		}
		if v, ok := record.Get("chunk_count"); ok {
			if n, ok := v.(int64); ok {
				doc.ChunkCount = int(n)
			}
		}
		docs = append(docs, doc)
	}
	return docs, result.Err()
}

// AllChunks fetches every chunk with its embedding. The SOP corpus is
// small, so scoring happens in process rather than in the database.
func (r *Repository) AllChunks(ctx context.Context) ([]StoredChunk, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (d:Document)-[:HAS_CHUNK]->(c:Chunk)
		RETURN d.name AS name, d.description AS description,
		       c.content AS content, c.index AS index, c.embedding AS embedding
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}

	var chunks []StoredChunk
	for result.Next(ctx) {
		record := result.Record()
		chunk := StoredChunk{
			DocumentName: recordString(record, "name"),
			Description:  recordString(record, "description"),
			Content:      recordString(record, "content"),
		}
		if v, ok := record.Get("index"); ok {
			if n, ok := v.(int64); ok {
				chunk.Index = int(n)
			}
		}
		if v, ok := record.Get("embedding"); ok {
			if raw, ok := v.([]interface{}); ok {
				chunk.Embedding = make([]float64, 0, len(raw))
				for _, f := range raw {
					if x, ok := f.(float64); ok {
						chunk.Embedding = append(chunk.Embedding, x)
					}
				}
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, result.Err()
}

func recordString(record *neo4j.Record, key string) string {
	if v, ok := record.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
