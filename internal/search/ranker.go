package search

import (
	"sort"

	"github.com/gcbaptista/go-ir-engine/index"
)

// Ranker answers a query with an ordered result list. It is selected once per request
// from a Method (and, for boolean retrieval, an Operator).
type Ranker interface {
	Method() Method
	Search(terms []string, topK int) []Result
}

// Models bundles the three retrieval models built over one index.
// Each model owns its own IDF cache because the formulas differ.
type Models struct {
	Boolean *BooleanRetrieval
	VSM     *VectorSpaceModel
	BM25    *BM25
}

// NewModels creates the retrieval models over a built index.
func NewModels(invIndex *index.InvertedIndex, k1, b float64) *Models {
	return &Models{
		Boolean: NewBooleanRetrieval(invIndex),
		VSM:     NewVectorSpaceModel(invIndex),
		BM25:    NewBM25(invIndex, k1, b),
	}
}

// Ranker returns the ranker for method. The operator is only consulted for boolean retrieval.
func (m *Models) Ranker(method Method, op Operator) (Ranker, error) {
	switch method {
	case MethodBoolean:
		parsed, err := ParseOperator(string(op))
		if err != nil {
			return nil, err
		}
		return booleanRanker{model: m.Boolean, op: parsed}, nil
	case MethodVSM:
		return vsmRanker{model: m.VSM}, nil
	case MethodBM25:
		return bm25Ranker{model: m.BM25}, nil
	default:
		_, err := ParseMethod(string(method))
		return nil, err
	}
}

type booleanRanker struct {
	model *BooleanRetrieval
	op    Operator
}

func (r booleanRanker) Method() Method { return MethodBoolean }

// Search returns the matches in doc ID order with the constant boolean score.
func (r booleanRanker) Search(terms []string, topK int) []Result {
	docIDs := r.model.Search(terms, r.op)
	results := make([]Result, len(docIDs))
	for i, docID := range docIDs {
		results[i] = Result{DocID: docID, Score: booleanScore}
	}
	return truncate(results, topK)
}

type vsmRanker struct {
	model *VectorSpaceModel
}

func (r vsmRanker) Method() Method { return MethodVSM }

func (r vsmRanker) Search(terms []string, topK int) []Result { return r.model.Search(terms, topK) }

type bm25Ranker struct {
	model *BM25
}

func (r bm25Ranker) Method() Method { return MethodBM25 }

func (r bm25Ranker) Search(terms []string, topK int) []Result { return r.model.Search(terms, topK) }

// candidateDocs returns the union of the documents containing any of terms, sorted ascending.
func candidateDocs(invIndex *index.InvertedIndex, terms []string) []string {
	seen := make(map[string]struct{})
	for _, term := range terms {
		for _, p := range invIndex.Postings(term) {
			seen[p.DocID] = struct{}{}
		}
	}
	docIDs := make([]string, 0, len(seen))
	for docID := range seen {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)
	return docIDs
}
