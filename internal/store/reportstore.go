package store

import (
	"sync"

	"runam-backend/internal/models"
)

// ReportStore owns the immutable report records. Reports are only ever
// appended; review and follow-up happen out of band.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]models.Report
	byTask  map[string][]string
}

// NewReportStore creates an empty report store
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]models.Report),
		byTask:  make(map[string][]string),
	}
}

// Add persists a report
func (s *ReportStore) Add(report models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	s.byTask[report.TaskID] = append(s.byTask[report.TaskID], report.ID)
}

// ListByTask returns all reports filed against a task, oldest first
func (s *ReportStore) ListByTask(taskID string) []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []models.Report
	for _, id := range s.byTask[taskID] {
		reports = append(reports, s.reports[id])
	}
	return reports
}
