package store

import (
	"log"
	"strconv"
	"sync"
	"time"

	"runam-backend/internal/models"
	"runam-backend/internal/utils"
)

// AuditSink receives the audit entries of every successful task write, along
// with the post-write task state. Sinks are invoked outside the store mutex
// and must not fail the write (archive their errors, don't return them).
type AuditSink interface {
	RecordAudit(task models.Task, entries []models.AuditEntry)
}

// TaskStore is the single source of truth for tasks. All mutation goes
// through CompareAndSwap against a per-task version counter; tasks are never
// written in place and never deleted.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
	audit map[string][]models.AuditEntry
	sinks []AuditSink
}

// NewTaskStore creates an empty task store fanning out to the given sinks
func NewTaskStore(sinks ...AuditSink) *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*models.Task),
		audit: make(map[string][]models.AuditEntry),
		sinks: sinks,
	}
}

// Create registers a new open task for the poster and returns it at version 1
func (s *TaskStore) Create(posterID string, req models.CreateTaskRequest) *models.Task {
	now := utils.NowUTC()
	task := &models.Task{
		ID:              utils.GenerateUUID(),
		PosterID:        posterID,
		Title:           req.Title,
		Description:     req.Description,
		Budget:          req.Budget,
		TimeWindow:      req.TimeWindow,
		Location:        req.Location,
		Status:          models.TaskStatusOpen,
		PaymentState:    models.PaymentNotPaid,
		CompletionState: models.CompletionNotStarted,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	entry := models.AuditEntry{
		ID:        utils.GenerateUUID(),
		TaskID:    task.ID,
		ActorID:   posterID,
		Field:     "status",
		NewValue:  string(models.TaskStatusOpen),
		Note:      "task created",
		CreatedAt: now,
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.audit[task.ID] = append(s.audit[task.ID], entry)
	snapshot := *task
	s.mu.Unlock()

	s.notifySinks(snapshot, []models.AuditEntry{entry})
	return &snapshot
}

// Get returns a copy of the task, or a NotFound error
func (s *TaskStore) Get(id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, models.NewError(models.ErrNotFound, "task not found: %s", id)
	}
	copied := *task
	return &copied, nil
}

// ListOpen returns copies of all tasks still waiting for a runner
func (s *TaskStore) ListOpen() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open []models.Task
	for _, task := range s.tasks {
		if task.Status == models.TaskStatusOpen {
			open = append(open, *task)
		}
	}
	return open
}

// CompareAndSwap applies mutate to the task if and only if its version still
// equals expectedVersion. On success the version is incremented, one audit
// entry is appended per changed state field, and the updated copy is
// returned. A stale version yields a Conflict error; an error from mutate
// aborts the swap and is returned unchanged.
func (s *TaskStore) CompareAndSwap(id string, expectedVersion int64, actorID string, mutate func(*models.Task) error) (*models.Task, error) {
	s.mu.Lock()
	current, exists := s.tasks[id]
	if !exists {
		s.mu.Unlock()
		return nil, models.NewError(models.ErrNotFound, "task not found: %s", id)
	}
	if current.Version != expectedVersion {
		s.mu.Unlock()
		return nil, models.NewError(models.ErrConflict, "task %s version is %d, expected %d", id, current.Version, expectedVersion)
	}

	updated := *current
	if err := mutate(&updated); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	now := utils.NowUTC()
	updated.Version = current.Version + 1
	updated.UpdatedAt = now

	entries := diffEntries(current, &updated, actorID, now)
	s.tasks[id] = &updated
	s.audit[id] = append(s.audit[id], entries...)
	snapshot := updated
	s.mu.Unlock()

	s.notifySinks(snapshot, entries)
	return &snapshot, nil
}

// AppendNote records an informational audit entry without changing the task
// (e.g. a second freeze cause arriving on an already-frozen task).
func (s *TaskStore) AppendNote(taskID, actorID, note string) error {
	s.mu.Lock()
	task, exists := s.tasks[taskID]
	if !exists {
		s.mu.Unlock()
		return models.NewError(models.ErrNotFound, "task not found: %s", taskID)
	}

	entry := models.AuditEntry{
		ID:        utils.GenerateUUID(),
		TaskID:    taskID,
		ActorID:   actorID,
		Note:      note,
		CreatedAt: utils.NowUTC(),
	}
	s.audit[taskID] = append(s.audit[taskID], entry)
	snapshot := *task
	s.mu.Unlock()

	s.notifySinks(snapshot, []models.AuditEntry{entry})
	return nil
}

// History returns the ordered audit trail of a task
func (s *TaskStore) History(taskID string) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.tasks[taskID]; !exists {
		return nil, models.NewError(models.ErrNotFound, "task not found: %s", taskID)
	}
	entries := make([]models.AuditEntry, len(s.audit[taskID]))
	copy(entries, s.audit[taskID])
	return entries, nil
}

// notifySinks fans out to sinks after the mutex has been released. Sink
// failures are the sink's problem; the in-memory write already happened.
func (s *TaskStore) notifySinks(task models.Task, entries []models.AuditEntry) {
	for _, sink := range s.sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[AUDIT] WARNING: audit sink panicked: %v", r)
				}
			}()
			sink.RecordAudit(task, entries)
		}()
	}
}

// diffEntries builds one audit entry per state field changed by a swap
func diffEntries(before, after *models.Task, actorID string, now time.Time) []models.AuditEntry {
	changes := []struct {
		field    string
		old, new string
	}{
		{"status", string(before.Status), string(after.Status)},
		{"paymentStatus", string(before.PaymentState), string(after.PaymentState)},
		{"completionStatus", string(before.CompletionState), string(after.CompletionState)},
		{"runnerId", before.RunnerID, after.RunnerID},
		{"frozen", strconv.FormatBool(before.Frozen), strconv.FormatBool(after.Frozen)},
		{"freezeCause", string(before.FreezeCause), string(after.FreezeCause)},
	}

	var entries []models.AuditEntry
	for _, c := range changes {
		if c.old == c.new {
			continue
		}
		entries = append(entries, models.AuditEntry{
			ID:        utils.GenerateUUID(),
			TaskID:    after.ID,
			ActorID:   actorID,
			Field:     c.field,
			OldValue:  c.old,
			NewValue:  c.new,
			CreatedAt: now,
		})
	}
	return entries
}
