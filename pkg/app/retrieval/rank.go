package retrieval

import (
	"sort"
	"strings"

	"github.com/asifkhuda/turing/pkg/common"
	"github.com/asifkhuda/turing/pkg/domain/knowledge"
)

// Rank scores every document whose embedding matches the query dimension and
// returns them by descending score. Ties keep store order. The second result
// is the number of documents skipped for a dimension mismatch.
func Rank(query []float64, docs []knowledge.Document) ([]knowledge.ScoredDocument, int) {
	scored := make([]knowledge.ScoredDocument, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		score, err := CosineSimilarity(query, doc.Embedding)
		if err != nil {
			skipped++
			continue
		}
		scored = append(scored, knowledge.ScoredDocument{Document: doc, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, skipped
}

func BuildContext(docs []knowledge.ScoredDocument) string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.Text)
	}
	return strings.Join(texts, common.ContextSeparator)
}
