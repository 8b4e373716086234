package tools

import (
	"context"
	"fmt"
	"strings"
)

const knowledgeSearchLimit = 5

func (e *Executor) executeSearchKnowledge(ctx context.Context, args map[string]interface{}) *ToolResult {
	if e.knowledge == nil {
		return &ToolResult{Success: false, Error: "The knowledge base is not available right now."}
	}

	query := strings.TrimSpace(stringArg(args, "query"))
	if query == "" {
		return &ToolResult{Success: false, Error: "Error: query is required"}
	}

	results, err := e.knowledge.Search(ctx, query, knowledgeSearchLimit)
	if err != nil {
		return &ToolResult{Success: false, Error: "Error searching knowledge base: " + err.Error()}
	}

	if len(results) == 0 {
		return &ToolResult{
			Success: true,
			Message: "I couldn't find anything relevant in the knowledge base for that.",
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant section(s) in the knowledge base:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "--- Result %d (from '%s', %.0f%% match) ---\n%s\n\n",
			i+1, r.DocumentName, r.Similarity*100, r.Content)
	}
	return &ToolResult{Success: true, Message: strings.TrimSpace(b.String())}
}
