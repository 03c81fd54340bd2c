package services

import (
	"log"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// CompletionTrack is the state machine for work-completion attestation. The
// runner marks the work done; the poster confirms (closing the task) or
// disputes.
//
//	NOT_STARTED --MarkCompleted(runner)--> MARKED_COMPLETED
//	MARKED_COMPLETED --ConfirmCompletion(poster)--> CONFIRMED, task closed
//	MARKED_COMPLETED --DisputeCompletion(poster)--> DISPUTED (freezes the task)
type CompletionTrack struct {
	tasks *store.TaskStore
	gate  *DisputeGate
}

// NewCompletionTrack creates the completion track over the task store
func NewCompletionTrack(tasks *store.TaskStore, gate *DisputeGate) *CompletionTrack {
	return &CompletionTrack{tasks: tasks, gate: gate}
}

// MarkCompleted records the runner's attestation that the work is done
func (c *CompletionTrack) MarkCompleted(taskID, actorID string) (*models.Task, error) {
	return transition(c.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.RunnerID != actorID {
			return models.NewError(models.ErrForbidden, "only the runner can mark the task completed")
		}
		if t.CompletionState != models.CompletionNotStarted {
			return models.NewTransitionError(string(t.CompletionState), "completion cannot be marked from this state")
		}
		t.CompletionState = models.CompletionMarkedCompleted
		return nil
	})
}

// ConfirmCompletion records the poster's confirmation and closes the task.
// This is the only transition that closes a task and it is irreversible;
// completion state and lifecycle move in the same swap.
func (c *CompletionTrack) ConfirmCompletion(taskID, actorID string) (*models.Task, error) {
	task, err := transition(c.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.PosterID != actorID {
			return models.NewError(models.ErrForbidden, "only the poster can confirm completion")
		}
		if t.CompletionState != models.CompletionMarkedCompleted {
			return models.NewTransitionError(string(t.CompletionState), "the task has not been marked completed")
		}
		t.CompletionState = models.CompletionConfirmed
		t.Status = models.TaskStatusDone
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[COMPLETION] task %s closed by poster %s", taskID, actorID)
	return task, nil
}

// DisputeCompletion records the poster's claim that the work is not actually
// done and places the task under review. Disputed state and freeze land in
// the same swap; no reader ever sees one without the other.
func (c *CompletionTrack) DisputeCompletion(taskID, actorID string) (*models.Task, error) {
	task, err := transition(c.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.PosterID != actorID {
			return models.NewError(models.ErrForbidden, "only the poster can dispute completion")
		}
		if t.CompletionState != models.CompletionMarkedCompleted {
			return models.NewTransitionError(string(t.CompletionState), "the task has not been marked completed")
		}
		t.CompletionState = models.CompletionDisputed
		c.gate.applyFreeze(t, models.FreezeCauseCompletionDispute)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[COMPLETION] task %s disputed by poster %s, under review", taskID, actorID)
	return task, nil
}
