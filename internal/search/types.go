package search

import (
	"sort"
	"strings"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
)

// Result is a single ranked (or matched) document.
type Result struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// Method names a retrieval model.
type Method string

const (
	MethodBoolean Method = "boolean"
	MethodVSM     Method = "vsm"
	MethodBM25    Method = "bm25"
)

// Methods lists every retrieval model in evaluation order.
var Methods = []Method{MethodBoolean, MethodVSM, MethodBM25}

// ParseMethod resolves a method name case-insensitively.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case MethodBoolean:
		return MethodBoolean, nil
	case MethodVSM:
		return MethodVSM, nil
	case MethodBM25:
		return MethodBM25, nil
	default:
		return "", errors.NewUnknownMethodError(name)
	}
}

// Operator is a boolean set operator.
type Operator string

const (
	OperatorAND Operator = "AND"
	OperatorOR  Operator = "OR"
	OperatorNOT Operator = "NOT"
)

// ParseOperator resolves an operator name case-insensitively.
func ParseOperator(name string) (Operator, error) {
	switch Operator(strings.ToUpper(strings.TrimSpace(name))) {
	case OperatorAND:
		return OperatorAND, nil
	case OperatorOR:
		return OperatorOR, nil
	case OperatorNOT:
		return OperatorNOT, nil
	default:
		return "", errors.NewUnknownOperatorError(name)
	}
}

// sortResults orders results by score descending, then doc ID ascending.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
}

// truncate keeps at most topK results. A negative topK keeps everything.
func truncate(results []Result, topK int) []Result {
	if topK >= 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}

// distinctTerms returns the query terms without repetitions, in first-seen order,
// together with the in-query frequency of each.
func distinctTerms(terms []string) ([]string, map[string]int) {
	freqs := make(map[string]int, len(terms))
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		if freqs[term] == 0 {
			ordered = append(ordered, term)
		}
		freqs[term]++
	}
	return ordered, freqs
}
