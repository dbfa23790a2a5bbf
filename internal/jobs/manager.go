// Package jobs runs long operations such as evaluation runs in the background and tracks
// their status.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Cleanup schedule for finished jobs
const (
	DefaultCleanupInterval = time.Hour
	DefaultMaxJobAge       = 24 * time.Hour
)

// ProgressFunc reports how far a running job has come.
type ProgressFunc func(current, total int, message string)

// Func is the body of a job. Its return value becomes the job result.
type Func func(ctx context.Context, progress ProgressFunc) (interface{}, error)

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	workers  chan struct{} // Limits concurrent jobs
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
	stats    *Stats
	logger   *zap.Logger
}

// NewManager creates a job manager running at most maxWorkers jobs at once.
func NewManager(maxWorkers int, logger *zap.Logger) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:    make(map[string]*model.Job),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		cancel:  cancel,
		stats:   NewStats(),
		logger:  logging.OrNop(logger).Named("jobs"),
	}
}

// Start begins the background cleanup of finished jobs.
func (m *Manager) Start() {
	m.logger.Info("job manager started", zap.Int("max_workers", cap(m.workers)))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.cleanupRoutine(DefaultCleanupInterval, DefaultMaxJobAge)
	}()
}

// Stop cancels running jobs and waits for them to return.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		// Run adds to wg under mu, so no job can start once cancel is visible
		m.mu.Lock()
		m.cancel()
		m.mu.Unlock()
		m.wg.Wait()
		m.logger.Info("job manager stopped")
	})
}

// CreateJob registers a pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, dataset string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		Dataset:   dataset,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.stats.recordCreated(jobType)
	m.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("dataset", dataset),
	)
	return job.ID
}

// GetJob retrieves a snapshot of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return snapshot(job), nil
}

// ListJobs returns the jobs of a dataset, oldest first, optionally filtered by status.
// An empty dataset matches every job.
func (m *Manager) ListJobs(dataset string, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*model.Job{}
	for _, job := range m.jobs {
		if dataset != "" && job.Dataset != dataset {
			continue
		}
		if status != nil && job.Status != *status {
			continue
		}
		result = append(result, snapshot(job))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Run executes fn for a pending job in the background. The job waits for a free worker
// slot while staying in running status.
func (m *Manager) Run(jobID string, fn Func) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		return fmt.Errorf("job manager is shutting down")
	}

	now := time.Now()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	m.stats.recordStatusChange(model.JobStatusPending, model.JobStatusRunning)
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.finish(jobID, nil, fmt.Errorf("job manager is shutting down"), 0)
			return
		}
		defer func() { <-m.workers }()

		start := time.Now()
		result, err := fn(m.ctx, func(current, total int, message string) {
			m.UpdateJobProgress(jobID, current, total, message)
		})
		m.finish(jobID, result, err, time.Since(start))
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) finish(jobID string, result interface{}, err error, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	now := time.Now()
	job.CompletedAt = &now
	if err != nil {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		m.stats.recordStatusChange(model.JobStatusRunning, model.JobStatusFailed)
		m.stats.recordFailed()
		m.logger.Warn("job failed", zap.String("job_id", jobID), zap.Duration("took", took), zap.Error(err))
		return
	}

	job.Status = model.JobStatusCompleted
	job.Result = result
	m.stats.recordStatusChange(model.JobStatusRunning, model.JobStatusCompleted)
	m.stats.recordCompleted(took)
	m.logger.Info("job completed", zap.String("job_id", jobID), zap.Duration("took", took))
}

func (m *Manager) cleanupRoutine(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(maxAge)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago.
// It returns the number of jobs removed.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Info("cleaned up old jobs", zap.Int("count", cleaned))
	}
	return cleaned
}

// Stats returns a snapshot of the job counters.
func (m *Manager) Stats() StatsData {
	return m.stats.snapshot()
}

func snapshot(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Metadata != nil {
		jobCopy.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			jobCopy.Metadata[k] = v
		}
	}
	return &jobCopy
}
