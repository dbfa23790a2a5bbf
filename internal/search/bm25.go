package search

import (
	"math"

	"github.com/gcbaptista/go-ir-engine/index"
)

// Default BM25 parameters
const (
	DefaultK1 = 1.5  // Controls term frequency saturation
	DefaultB  = 0.75 // Controls how much effect document length has
)

// BM25 ranks documents with the Okapi BM25 probabilistic model.
// k1 and b are fixed at construction.
type BM25 struct {
	invertedIndex *index.InvertedIndex
	k1            float64
	b             float64
	idfCache      termCache
}

// NewBM25 creates a BM25 ranker over a built index.
func NewBM25(invIndex *index.InvertedIndex, k1, b float64) *BM25 {
	return &BM25{
		invertedIndex: invIndex,
		k1:            k1,
		b:             b,
	}
}

// K1 returns the term frequency saturation parameter.
func (m *BM25) K1() float64 { return m.k1 }

// B returns the length normalization parameter.
func (m *BM25) B() float64 { return m.b }

// IDF calculates the saturating BM25 inverse document frequency
// IDF = ln((N - df + 0.5) / (df + 0.5) + 1), 0 for an unseen term
func (m *BM25) IDF(term string) float64 {
	return m.idfCache.get(term, m.computeIDF)
}

func (m *BM25) computeIDF(term string) float64 {
	df := float64(m.invertedIndex.DocFrequency(term))
	if df == 0 {
		return 0
	}
	n := float64(m.invertedIndex.TotalDocs())
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// ScoreTerm calculates the BM25 contribution of a single term to a document
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (m *BM25) ScoreTerm(term, docID string) float64 {
	tf := float64(m.invertedIndex.TermFrequency(term, docID))
	if tf == 0 {
		return 0
	}

	avgDocLength := m.invertedIndex.AvgDocLength()
	if avgDocLength == 0 {
		return 0
	}
	docLength, _ := m.invertedIndex.DocLength(docID)

	denominator := tf + m.k1*(1-m.b+m.b*(float64(docLength)/avgDocLength))
	return m.IDF(term) * (tf * (m.k1 + 1)) / denominator
}

// Search scores every document sharing a term with the query.
// Repeated query terms contribute once per occurrence.
func (m *BM25) Search(terms []string, topK int) []Result {
	if len(terms) == 0 || topK == 0 {
		return []Result{}
	}

	uniqueTerms, _ := distinctTerms(terms)
	candidates := candidateDocs(m.invertedIndex, uniqueTerms)
	if len(candidates) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(candidates))
	for _, docID := range candidates {
		score := 0.0
		for _, term := range terms {
			score += m.ScoreTerm(term, docID)
		}
		results = append(results, Result{DocID: docID, Score: score})
	}

	sortResults(results)
	return truncate(results, topK)
}
