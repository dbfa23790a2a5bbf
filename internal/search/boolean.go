package search

import (
	"sort"

	"github.com/gcbaptista/go-ir-engine/index"
)

// booleanScore is the placeholder score given to every boolean match.
const booleanScore = 1.0

// BooleanRetrieval evaluates set-algebraic queries over the index.
type BooleanRetrieval struct {
	invertedIndex *index.InvertedIndex
}

// NewBooleanRetrieval creates a boolean evaluator over a built index.
func NewBooleanRetrieval(invIndex *index.InvertedIndex) *BooleanRetrieval {
	return &BooleanRetrieval{invertedIndex: invIndex}
}

// Search returns the IDs of the documents matching terms under op, sorted ascending.
//
//   - AND: documents containing every term
//   - OR:  documents containing at least one term
//   - NOT: every indexed document that contains none of the terms
//
// Empty terms or an unknown operator yield an empty result.
func (br *BooleanRetrieval) Search(terms []string, op Operator) []string {
	if len(terms) == 0 {
		return []string{}
	}

	var matched map[string]struct{}
	switch op {
	case OperatorAND:
		matched = br.invertedIndex.DocsContaining(terms[0])
		for _, term := range terms[1:] {
			if len(matched) == 0 {
				break
			}
			matched = intersect(matched, br.invertedIndex.DocsContaining(term))
		}
	case OperatorOR:
		matched = br.union(terms)
	case OperatorNOT:
		excluded := br.union(terms)
		matched = make(map[string]struct{})
		for _, docID := range br.invertedIndex.DocIDs() {
			if _, skip := excluded[docID]; !skip {
				matched[docID] = struct{}{}
			}
		}
	default:
		return []string{}
	}

	docIDs := make([]string, 0, len(matched))
	for docID := range matched {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)
	return docIDs
}

func (br *BooleanRetrieval) union(terms []string) map[string]struct{} {
	result := make(map[string]struct{})
	for _, term := range terms {
		for docID := range br.invertedIndex.DocsContaining(term) {
			result[docID] = struct{}{}
		}
	}
	return result
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	result := make(map[string]struct{}, len(a))
	for docID := range a {
		if _, ok := b[docID]; ok {
			result[docID] = struct{}{}
		}
	}
	return result
}
