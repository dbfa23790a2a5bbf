package search

import (
	"math"

	"github.com/gcbaptista/go-ir-engine/index"
)

// VectorSpaceModel ranks documents by the cosine similarity of TF-IDF vectors.
type VectorSpaceModel struct {
	invertedIndex *index.InvertedIndex
	idfCache      termCache
	normCache     termCache // doc ID -> Euclidean norm of the full document vector
}

// NewVectorSpaceModel creates a VSM ranker over a built index.
func NewVectorSpaceModel(invIndex *index.InvertedIndex) *VectorSpaceModel {
	return &VectorSpaceModel{invertedIndex: invIndex}
}

// IDF returns ln(N / df), or 0 for an unseen term.
func (m *VectorSpaceModel) IDF(term string) float64 {
	return m.idfCache.get(term, m.computeIDF)
}

func (m *VectorSpaceModel) computeIDF(term string) float64 {
	df := m.invertedIndex.DocFrequency(term)
	if df == 0 {
		return 0
	}
	return math.Log(float64(m.invertedIndex.TotalDocs()) / float64(df))
}

// TFIDF returns (1 + ln tf) * idf for term in docID, 0 when the term is absent.
func (m *VectorSpaceModel) TFIDF(term, docID string) float64 {
	tf := m.invertedIndex.TermFrequency(term, docID)
	if tf == 0 {
		return 0
	}
	return logTF(tf) * m.IDF(term)
}

// DocNorm returns the Euclidean norm of the TF-IDF vector over every term of docID.
func (m *VectorSpaceModel) DocNorm(docID string) float64 {
	return m.normCache.get(docID, m.computeDocNorm)
}

func (m *VectorSpaceModel) computeDocNorm(docID string) float64 {
	sum := 0.0
	// DocTerms has a fixed order, so the floating point sum is reproducible
	for _, term := range m.invertedIndex.DocTerms(docID) {
		w := m.TFIDF(term, docID)
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Search ranks the documents that share at least one term with the query by cosine similarity.
// Documents with a zero-norm vector are left out, as is everything when the query vector is zero.
func (m *VectorSpaceModel) Search(terms []string, topK int) []Result {
	if len(terms) == 0 || topK == 0 {
		return []Result{}
	}

	queryTerms, queryFreqs := distinctTerms(terms)
	candidates := candidateDocs(m.invertedIndex, queryTerms)
	if len(candidates) == 0 {
		return []Result{}
	}

	queryVector := make(map[string]float64, len(queryTerms))
	queryNorm := 0.0
	for _, term := range queryTerms {
		w := logTF(queryFreqs[term]) * m.IDF(term)
		queryVector[term] = w
		queryNorm += w * w
	}
	queryNorm = math.Sqrt(queryNorm)
	if queryNorm == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(candidates))
	for _, docID := range candidates {
		docNorm := m.DocNorm(docID)
		if docNorm == 0 {
			continue
		}

		dot := 0.0
		for _, term := range queryTerms {
			dot += queryVector[term] * m.TFIDF(term, docID)
		}
		results = append(results, Result{DocID: docID, Score: dot / (queryNorm * docNorm)})
	}

	sortResults(results)
	return truncate(results, topK)
}

func logTF(tf int) float64 {
	return 1 + math.Log(float64(tf))
}
