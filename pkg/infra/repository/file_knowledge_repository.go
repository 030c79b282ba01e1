package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/asifkhuda/turing/pkg/domain/knowledge"
)

type fileKnowledgeRepository struct {
	path string
}

// NewFileKnowledgeRepository reads and decodes the vector store on every
// Load. Pair it with NewCachedKnowledgeRepository to avoid per-request I/O.
func NewFileKnowledgeRepository(path string) knowledge.Repository {
	return &fileKnowledgeRepository{path: filepath.Clean(path)}
}

func (r *fileKnowledgeRepository) Load(ctx context.Context) ([]knowledge.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", knowledge.ErrKnowledgeBaseNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", r.path, err)
	}

	var docs []knowledge.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", knowledge.ErrInvalidKnowledgeBase, err)
	}
	if len(docs) == 0 {
		return nil, knowledge.ErrEmptyKnowledgeBase
	}
	return docs, nil
}
