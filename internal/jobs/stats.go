package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-ir-engine/model"
)

// StatsData is a point-in-time copy of the job counters.
type StatsData struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	SuccessRate          float64                   `json:"success_rate"` // completed / finished, 0 before any job finished
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// Stats counts jobs by type and status.
type Stats struct {
	mu                 sync.RWMutex
	created            int64
	completed          int64
	failed             int64
	totalExecutionTime time.Duration
	byType             map[model.JobType]int64
	byStatus           map[model.JobStatus]int64
	lastUpdated        time.Time
}

// NewStats creates empty job counters.
func NewStats() *Stats {
	return &Stats{
		byType:      make(map[model.JobType]int64),
		byStatus:    make(map[model.JobStatus]int64),
		lastUpdated: time.Now(),
	}
}

func (s *Stats) recordCreated(jobType model.JobType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created++
	s.byType[jobType]++
	s.byStatus[model.JobStatusPending]++
	s.lastUpdated = time.Now()
}

func (s *Stats) recordStatusChange(from, to model.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byStatus[from] > 0 {
		s.byStatus[from]--
	}
	s.byStatus[to]++
	s.lastUpdated = time.Now()
}

func (s *Stats) recordCompleted(took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed++
	s.totalExecutionTime += took
	s.lastUpdated = time.Now()
}

func (s *Stats) recordFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed++
	s.lastUpdated = time.Now()
}

func (s *Stats) snapshot() StatsData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[model.JobType]int64, len(s.byType))
	for k, v := range s.byType {
		byType[k] = v
	}
	byStatus := make(map[model.JobStatus]int64, len(s.byStatus))
	for k, v := range s.byStatus {
		byStatus[k] = v
	}

	data := StatsData{
		JobsCreated:   s.created,
		JobsCompleted: s.completed,
		JobsFailed:    s.failed,
		JobsByType:    byType,
		JobsByStatus:  byStatus,
		LastUpdated:   s.lastUpdated,
	}
	if s.completed > 0 {
		data.AverageExecutionTime = s.totalExecutionTime / time.Duration(s.completed)
	}
	if finished := s.completed + s.failed; finished > 0 {
		data.SuccessRate = float64(s.completed) / float64(finished)
	}
	return data
}
