package index

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
)

// SourceDocument is a document that has already been tokenized and normalized by the caller.
type SourceDocument struct {
	ID    string
	Terms []string
}

// InvertedIndex maps a term (token) to the positions at which it occurs in each document,
// together with the per-document and corpus-wide statistics the ranking models need.
//
// An InvertedIndex is built exactly once by Build and is read-only afterwards,
// so concurrent reads need no locking.
type InvertedIndex struct {
	postings      map[string]PostingList
	docFreqs      map[string]int
	docLengths    map[string]int
	docTermCounts map[string]map[string]int
	docTerms      map[string][]string // distinct terms of a document, in first-occurrence order
	docIDs        []string            // build order
	totalDocs     int
	avgDocLength  float64
}

// Build creates an inverted index from documents in the order given.
// Document IDs must be non-empty and unique; anything else is rejected as invalid input.
func Build(docs []SourceDocument) (*InvertedIndex, error) {
	ii := &InvertedIndex{
		postings:      make(map[string]PostingList),
		docFreqs:      make(map[string]int),
		docLengths:    make(map[string]int, len(docs)),
		docTermCounts: make(map[string]map[string]int, len(docs)),
		docTerms:      make(map[string][]string, len(docs)),
		docIDs:        make([]string, 0, len(docs)),
	}

	totalLength := 0
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, errors.NewValidationError("documents", fmt.Sprintf("document at position %d has an empty ID", i))
		}
		if _, dup := ii.docLengths[doc.ID]; dup {
			return nil, errors.NewValidationError("documents", fmt.Sprintf("duplicate document ID '%s'", doc.ID))
		}

		counts := make(map[string]int)
		distinct := make([]string, 0)
		for pos, term := range doc.Terms {
			if counts[term] == 0 {
				distinct = append(distinct, term)
				ii.docFreqs[term]++
			}
			counts[term]++
			ii.postings[term] = append(ii.postings[term], Posting{DocID: doc.ID, Position: pos})
		}

		ii.docIDs = append(ii.docIDs, doc.ID)
		ii.docLengths[doc.ID] = len(doc.Terms)
		ii.docTermCounts[doc.ID] = counts
		ii.docTerms[doc.ID] = distinct
		totalLength += len(doc.Terms)
	}

	ii.totalDocs = len(ii.docIDs)
	if ii.totalDocs > 0 {
		ii.avgDocLength = float64(totalLength) / float64(ii.totalDocs)
	}
	return ii, nil
}

// BuildFromMap builds an index from a doc ID -> terms mapping.
// Map iteration order is random, so documents are indexed in ascending ID order.
func BuildFromMap(docs map[string][]string) (*InvertedIndex, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	source := make([]SourceDocument, len(ids))
	for i, id := range ids {
		source[i] = SourceDocument{ID: id, Terms: docs[id]}
	}
	return Build(source)
}

// Postings returns the posting list of a term. The returned slice must not be modified.
func (ii *InvertedIndex) Postings(term string) PostingList {
	return ii.postings[term]
}

// DocsContaining returns the distinct set of documents with at least one posting for term.
// The set is empty (never nil) when the term was never seen.
func (ii *InvertedIndex) DocsContaining(term string) map[string]struct{} {
	postings := ii.postings[term]
	docs := make(map[string]struct{}, ii.docFreqs[term])
	for _, p := range postings {
		docs[p.DocID] = struct{}{}
	}
	return docs
}

// TermFrequency returns the raw count of term in docID, 0 if either is unknown.
func (ii *InvertedIndex) TermFrequency(term, docID string) int {
	return ii.docTermCounts[docID][term]
}

// DocFrequency returns the number of distinct documents containing term.
func (ii *InvertedIndex) DocFrequency(term string) int {
	return ii.docFreqs[term]
}

// DocLength returns the number of tokens indexed for docID.
func (ii *InvertedIndex) DocLength(docID string) (int, bool) {
	length, ok := ii.docLengths[docID]
	return length, ok
}

// DocTermCounts returns the term -> count mapping of a document. The map must not be modified.
func (ii *InvertedIndex) DocTermCounts(docID string) map[string]int {
	return ii.docTermCounts[docID]
}

// DocTerms returns the distinct terms of a document in first-occurrence order.
// The returned slice must not be modified.
func (ii *InvertedIndex) DocTerms(docID string) []string {
	return ii.docTerms[docID]
}

// DocIDs returns all indexed document IDs in build order.
func (ii *InvertedIndex) DocIDs() []string {
	ids := make([]string, len(ii.docIDs))
	copy(ids, ii.docIDs)
	return ids
}

// TotalDocs returns the number of indexed documents.
func (ii *InvertedIndex) TotalDocs() int {
	return ii.totalDocs
}

// AvgDocLength returns the mean document length, 0 for an empty corpus.
func (ii *InvertedIndex) AvgDocLength() float64 {
	return ii.avgDocLength
}

// VocabularySize returns the number of distinct terms.
func (ii *InvertedIndex) VocabularySize() int {
	return len(ii.postings)
}

// Terms returns the vocabulary sorted ascending.
func (ii *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ii.postings))
	for term := range ii.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
