package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/asifkhuda/turing/pkg/domain/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vector_store.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileKnowledgeRepository_Load(t *testing.T) {
	path := writeStore(t, `[
		{"id": "a", "text": "Asif studied CS", "embedding": [1, 0]},
		{"text": "Asif likes Go", "embedding": [0, 1]}
	]`)

	docs, err := NewFileKnowledgeRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Asif studied CS", docs[0].Text)
	assert.Equal(t, []float64{0, 1}, docs[1].Embedding)
	assert.Contains(t, docs[0].Extra, "id")
}

func TestFileKnowledgeRepository_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: knowledge.ErrKnowledgeBaseNotFound,
		},
		{
			name:    "empty array",
			path:    func(t *testing.T) string { return writeStore(t, `[]`) },
			wantErr: knowledge.ErrEmptyKnowledgeBase,
		},
		{
			name:    "not an array",
			path:    func(t *testing.T) string { return writeStore(t, `{"text": "x"}`) },
			wantErr: knowledge.ErrInvalidKnowledgeBase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileKnowledgeRepository(tt.path(t)).Load(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileKnowledgeRepository_ReadsEveryCall(t *testing.T) {
	path := writeStore(t, `[{"text": "v1", "embedding": [1]}]`)
	repo := NewFileKnowledgeRepository(path)

	docs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", docs[0].Text)

	require.NoError(t, os.WriteFile(path, []byte(`[{"text": "v2", "embedding": [1]}]`), 0600))
	docs, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", docs[0].Text)
}
