// Package analytics keeps an in-memory log of recent searches and summarizes it.
package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
)

const (
	// DefaultMaxEvents is the number of most recent events kept.
	DefaultMaxEvents = 10000
	topQueries       = 5
)

// StatsProvider reports the size of the searched collection.
type StatsProvider interface {
	Stats() services.IndexStats
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	stats     StatsProvider
}

// NewService creates an analytics service keeping the last maxEvents events.
// stats may be nil, in which case the document total is reported as 0.
func NewService(maxEvents int, stats StatsProvider) *Service {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		stats:     stats,
	}
}

// Track records a search event, stamping it with the current time when unset.
func (s *Service) Track(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// Len returns the number of events currently kept.
func (s *Service) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// Summary aggregates the kept events.
func (s *Service) Summary() model.AnalyticsSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := model.AnalyticsSummary{
		TotalSearches:            len(s.events),
		AvgResponseTime:          avgResponseTime(s.events),
		PopularSearches:          popularSearches(s.events, func(model.SearchEvent) bool { return true }),
		ZeroResultQueries:        popularSearches(s.events, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		ResponseTimeDistribution: responseTimeDistribution(s.events),
		Methods:                  methodStats(s.events),
	}
	for _, event := range s.events {
		if event.ResultCount == 0 {
			summary.ZeroResultSearches++
		}
	}
	if s.stats != nil {
		summary.TotalDocuments = s.stats.Stats().TotalDocuments
	}
	return summary
}

// avgResponseTime returns the mean response time in milliseconds
func avgResponseTime(events []model.SearchEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return float64(total) / float64(len(events)) / float64(time.Millisecond)
}

// popularSearches returns the most frequent normalized queries among the events that pass keep.
// Ties are broken alphabetically.
func popularSearches(events []model.SearchEvent, keep func(model.SearchEvent) bool) []model.PopularSearch {
	counts := make(map[string]int)
	for _, event := range events {
		query := strings.ToLower(strings.TrimSpace(event.Query))
		if query == "" || !keep(event) {
			continue
		}
		counts[query]++
	}

	popular := make([]model.PopularSearch, 0, len(counts))
	for query, count := range counts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}

func responseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}

func methodStats(events []model.SearchEvent) model.MethodStats {
	stats := model.MethodStats{}
	for _, event := range events {
		switch event.Method {
		case "boolean":
			stats.Boolean++
		case "vsm":
			stats.VSM++
		case "bm25":
			stats.BM25++
		}
	}
	return stats
}
