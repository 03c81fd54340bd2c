package services

import (
	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// transition runs one guarded track transition as a compare-and-swap,
// retrying lost races up to the CAS budget before surfacing Busy. The guard
// checks live inside mutate so they are atomic with the version check.
func transition(tasks *store.TaskStore, taskID, actorID string, mutate func(*models.Task) error) (*models.Task, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		task, err := tasks.Get(taskID)
		if err != nil {
			return nil, err
		}
		updated, err := tasks.CompareAndSwap(taskID, task.Version, actorID, mutate)
		if err == nil {
			return updated, nil
		}
		if !models.IsKind(err, models.ErrConflict) {
			return nil, err
		}
	}
	return nil, models.NewError(models.ErrBusy, "task is busy, try again")
}

// guardActive rejects transitions on frozen or non-active tasks. Track
// transitions only make sense between acceptance and closure.
func guardActive(t *models.Task) error {
	if t.Frozen {
		return models.NewError(models.ErrUnderReview, "task is under review")
	}
	if t.Status != models.TaskStatusAccepted {
		return models.NewTransitionError(string(t.Status), "task is not active")
	}
	return nil
}
