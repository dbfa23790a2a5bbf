// Package evaluation measures retrieval quality against relevance judgments.
package evaluation

import (
	"github.com/gcbaptista/go-ir-engine/internal/search"
)

// Metrics are the quality measures of one ranked result list.
type Metrics struct {
	Precision        float64 `json:"precision" yaml:"precision"`
	Recall           float64 `json:"recall" yaml:"recall"`
	F1               float64 `json:"f1" yaml:"f1"`
	AveragePrecision float64 `json:"average_precision" yaml:"average_precision"`
}

// Evaluate scores results against the set of relevant document IDs.
//
//   - precision: relevant retrieved / retrieved, 0 when nothing was retrieved
//   - recall: relevant retrieved / relevant, 0 when nothing is relevant
//   - F1: harmonic mean of precision and recall, 0 when both are 0
//   - average precision: sum of precision@rank at every relevant hit, divided by |relevant|
func Evaluate(results []search.Result, relevant map[string]struct{}) Metrics {
	retrieved := make(map[string]struct{}, len(results))
	for _, r := range results {
		retrieved[r.DocID] = struct{}{}
	}

	truePositives := 0
	for docID := range retrieved {
		if _, ok := relevant[docID]; ok {
			truePositives++
		}
	}

	var m Metrics
	if len(retrieved) > 0 {
		m.Precision = float64(truePositives) / float64(len(retrieved))
	}
	if len(relevant) > 0 {
		m.Recall = float64(truePositives) / float64(len(relevant))
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	found := 0
	for rank, r := range results {
		if _, ok := relevant[r.DocID]; ok {
			found++
			m.AveragePrecision += float64(found) / float64(rank+1)
		}
	}
	if len(relevant) > 0 {
		m.AveragePrecision /= float64(len(relevant))
	}
	return m
}

// Mean averages each measure over ms. The mean of nothing is all zeros.
func Mean(ms []Metrics) Metrics {
	var sum Metrics
	if len(ms) == 0 {
		return sum
	}
	for _, m := range ms {
		sum.Precision += m.Precision
		sum.Recall += m.Recall
		sum.F1 += m.F1
		sum.AveragePrecision += m.AveragePrecision
	}
	n := float64(len(ms))
	return Metrics{
		Precision:        sum.Precision / n,
		Recall:           sum.Recall / n,
		F1:               sum.F1 / n,
		AveragePrecision: sum.AveragePrecision / n,
	}
}
