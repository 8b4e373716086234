// Package knowledge implements the team's SOP knowledge base: documents
// are chunked, embedded and stored in Neo4j, then searched by cosine
// similarity against a query embedding.
package knowledge

import "strings"

// chunkSizeTokens caps each chunk. Token counts are approximated at four
// characters per token, which tracks close enough for sizing chunks.
const chunkSizeTokens = 1500

// Chunk is one embeddable slice of a document.
type Chunk struct {
	Index      int
	Content    string
	TokenCount int
}

func countTokens(text string) int {
	return len(text) / 4
}

// ChunkText splits a document into chunks. Paragraphs are packed until
// the token cap; a single oversized paragraph falls back to sentence
// splitting.
func ChunkText(text string) []Chunk {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []Chunk
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		content := strings.TrimSpace(current.String())
		if content == "" {
			return
		}
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Content:    content,
			TokenCount: currentTokens,
		})
		current.Reset()
		currentTokens = 0
	}

	for _, para := range paragraphs {
		paraTokens := countTokens(para)

		switch {
		case paraTokens > chunkSizeTokens:
			for _, sentence := range strings.Split(para, ". ") {
				sentence = strings.TrimSpace(sentence) + ". "
				sentenceTokens := countTokens(sentence)
				if currentTokens+sentenceTokens >= chunkSizeTokens {
					flush()
				}
				current.WriteString(sentence)
				currentTokens += sentenceTokens
			}

		case currentTokens+paraTokens < chunkSizeTokens:
			current.WriteString(para)
			current.WriteString("\n\n")
			currentTokens += paraTokens

		default:
			flush()
			current.WriteString(para)
			current.WriteString("\n\n")
			currentTokens = paraTokens
		}
	}
	flush()

	return chunks
}
