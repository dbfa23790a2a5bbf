package indexing

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/gcbaptista/go-ir-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ir-engine/model"
)

// generateTestDocuments creates a slice of test documents for benchmarking
func generateTestDocuments(count int) []model.Document {
	docs := make([]model.Document, count)
	for i := 0; i < count; i++ {
		docs[i] = model.Document{
			ID:    fmt.Sprintf("doc_%d", i),
			Title: fmt.Sprintf("Test Document %d", i),
			Text: fmt.Sprintf("This is a test document number %d with some content for indexing. "+
				"Retrieval systems rank documents by relevance to category_%d queries.", i, i%5),
		}
	}
	return docs
}

// BenchmarkBuild benchmarks index builds over growing corpora
func BenchmarkBuild(b *testing.B) {
	sizes := []int{100, 1000, 5000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("docs_%d", size), func(b *testing.B) {
			docs := generateTestDocuments(size)
			s, _ := NewService(tokenizer.NewProcessor(), DefaultConfig(), nil, nil)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Build(context.Background(), docs); err != nil {
					b.Fatalf("Build() error = %v", err)
				}
			}
		})
	}
}

// BenchmarkWorkerCounts compares text processing parallelism
func BenchmarkWorkerCounts(b *testing.B) {
	docs := generateTestDocuments(2000)
	workerCounts := []int{1, 2, runtime.NumCPU()}

	for _, workers := range workerCounts {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			s, _ := NewService(tokenizer.NewProcessor(), Config{BatchSize: 100, WorkerCount: workers}, nil, nil)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Build(context.Background(), docs); err != nil {
					b.Fatalf("Build() error = %v", err)
				}
			}
		})
	}
}
