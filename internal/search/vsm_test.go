package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ir-engine/index"
)

// newSampleIndex builds a small corpus with varied lengths and repeated terms.
func newSampleIndex(t *testing.T) *index.InvertedIndex {
	t.Helper()
	ii, err := index.Build([]index.SourceDocument{
		{ID: "doc1", Terms: []string{"quick", "brown", "fox", "jump", "fox"}},
		{ID: "doc2", Terms: []string{"lazi", "brown", "dog", "sleep", "dog", "dog"}},
		{ID: "doc3", Terms: []string{"quick", "refer", "guid"}},
		{ID: "doc4", Terms: []string{"fox", "dog", "friend"}},
		{ID: "doc5", Terms: []string{"market", "oil", "price", "oil"}},
		{ID: "doc6", Terms: []string{"brown"}},
	})
	require.NoError(t, err)
	return ii
}

func TestVSM_IDF(t *testing.T) {
	vsm := NewVectorSpaceModel(newCatDogIndex(t))

	// ln(2 / 2) = 0
	assert.Equal(t, 0.0, vsm.IDF("cat"))
	assert.InDelta(t, math.Ln2, vsm.IDF("dog"), 1e-12)
	assert.Equal(t, 0.0, vsm.IDF("nonexistent"))
}

func TestVSM_TFIDF(t *testing.T) {
	vsm := NewVectorSpaceModel(newSampleIndex(t))

	// "dog" occurs 3 times in doc2 and in 2 of 6 documents
	expected := (1 + math.Log(3)) * math.Log(6.0/2.0)
	assert.InDelta(t, expected, vsm.TFIDF("dog", "doc2"), 1e-12)

	assert.Equal(t, 0.0, vsm.TFIDF("dog", "doc1"))
	assert.Equal(t, 0.0, vsm.TFIDF("nonexistent", "doc1"))
}

func TestVSM_DocNormUsesFullDocument(t *testing.T) {
	vsm := NewVectorSpaceModel(newCatDogIndex(t))

	// d1 = cat sat mat: cat has idf 0, sat and mat have idf ln 2
	assert.InDelta(t, math.Sqrt(2)*math.Ln2, vsm.DocNorm("d1"), 1e-12)
	assert.InDelta(t, math.Ln2, vsm.DocNorm("d2"), 1e-12)
}

func TestVSM_Search(t *testing.T) {
	vsm := NewVectorSpaceModel(newCatDogIndex(t))

	results := vsm.Search([]string{"cat", "dog"}, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "d2", results[0].DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-12)
	assert.Equal(t, "d1", results[1].DocID)
	assert.InDelta(t, 0.0, results[1].Score, 1e-12)

	t.Run("zero query vector yields nothing", func(t *testing.T) {
		// "cat" is in every document, so its idf and the query norm are 0
		assert.Empty(t, vsm.Search([]string{"cat"}, 10))
	})

	t.Run("empty query and unseen terms", func(t *testing.T) {
		assert.Empty(t, vsm.Search(nil, 10))
		assert.Empty(t, vsm.Search([]string{"bird"}, 10))
	})

	t.Run("top k", func(t *testing.T) {
		assert.Empty(t, vsm.Search([]string{"dog"}, 0))
		assert.Len(t, vsm.Search([]string{"cat", "dog"}, 1), 1)
	})
}

func TestVSM_ZeroNormDocumentExcluded(t *testing.T) {
	// "common" is in every document, so "only" has a zero vector
	ii, err := index.Build([]index.SourceDocument{
		{ID: "only", Terms: []string{"common"}},
		{ID: "rich", Terms: []string{"common", "rare"}},
	})
	require.NoError(t, err)
	vsm := NewVectorSpaceModel(ii)

	results := vsm.Search([]string{"common", "rare"}, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "rich", results[0].DocID)
}

func TestVSM_CosineBound(t *testing.T) {
	vsm := NewVectorSpaceModel(newSampleIndex(t))

	queries := [][]string{
		{"fox"},
		{"brown", "dog"},
		{"dog", "dog", "fox"},
		{"quick", "brown", "fox", "oil"},
		{"oil", "price", "market"},
	}
	for _, q := range queries {
		for _, r := range vsm.Search(q, 10) {
			assert.GreaterOrEqual(t, r.Score, -1e-12, "query %v doc %s", q, r.DocID)
			assert.LessOrEqual(t, r.Score, 1+1e-12, "query %v doc %s", q, r.DocID)
		}
	}
}

func TestVSM_RepeatedQueryTermsWeighQueryVector(t *testing.T) {
	vsm := NewVectorSpaceModel(newSampleIndex(t))

	single := vsm.Search([]string{"dog", "fox"}, 10)
	weighted := vsm.Search([]string{"dog", "dog", "fox"}, 10)
	require.NotEmpty(t, single)
	require.Equal(t, len(single), len(weighted))

	// doc2 is the "dog"-heavy document, so boosting "dog" in the query raises its similarity
	scoreOf := func(results []Result, docID string) float64 {
		for _, r := range results {
			if r.DocID == docID {
				return r.Score
			}
		}
		t.Fatalf("%s missing from results", docID)
		return 0
	}
	assert.Greater(t, scoreOf(weighted, "doc2"), scoreOf(single, "doc2"))
}
