package services

import (
	"log"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// casAttempts bounds every compare-and-swap retry loop in the services.
// Exhausting it surfaces Busy; callers may retry after a backoff.
const casAttempts = 3

// Arbiter resolves concurrent accept requests on an open task so that
// exactly one runner is ever assigned.
type Arbiter struct {
	tasks *store.TaskStore
}

// NewArbiter creates an acceptance arbiter over the task store
func NewArbiter(tasks *store.TaskStore) *Arbiter {
	return &Arbiter{tasks: tasks}
}

// Accept assigns runnerID to the task if it is still open. Of all concurrent
// Accept calls on the same open task exactly one returns the updated task;
// the rest get AlreadyTaken. The poster cannot accept their own task.
func (a *Arbiter) Accept(taskID, runnerID string) (*models.Task, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		task, err := a.tasks.Get(taskID)
		if err != nil {
			return nil, err
		}

		// Fast path: no CAS attempt once a runner is visible.
		if task.Status != models.TaskStatusOpen {
			return nil, models.NewError(models.ErrAlreadyTaken, "task already taken")
		}
		if task.PosterID == runnerID {
			return nil, models.NewError(models.ErrForbidden, "you cannot accept your own task")
		}

		updated, err := a.tasks.CompareAndSwap(taskID, task.Version, runnerID, func(t *models.Task) error {
			if t.Status != models.TaskStatusOpen {
				return models.NewError(models.ErrAlreadyTaken, "task already taken")
			}
			// Runner and lifecycle move in the same swap so no reader ever
			// sees an accepted task without a runner.
			t.RunnerID = runnerID
			t.Status = models.TaskStatusAccepted
			return nil
		})
		if err == nil {
			log.Printf("[ARBITER] task %s accepted by runner %s (version %d)", taskID, runnerID, updated.Version)
			return updated, nil
		}
		if !models.IsKind(err, models.ErrConflict) {
			return nil, err
		}
		// Another accept raced ahead; re-read and decide.
	}
	return nil, models.NewError(models.ErrBusy, "task is busy, try again")
}
