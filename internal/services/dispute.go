package services

import (
	"fmt"
	"log"
	"strings"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
	"runam-backend/internal/utils"
)

// FreezeOutcome tells the caller whether their freeze request applied or
// found the task already frozen. Both are success from the caller's point of
// view; reporting an already-frozen task must still go through.
type FreezeOutcome string

const (
	FreezeApplied       FreezeOutcome = "frozen"
	FreezeAlreadyFrozen FreezeOutcome = "already_frozen"
)

// ReportArchiver persists reports outside the in-memory store, if configured
type ReportArchiver interface {
	ArchiveReport(report models.Report)
}

// DisputeGate is the cross-cutting authority that places tasks under manual
// review. A payment dispute, a completion dispute or a user report all land
// here; the first cause wins and later causes become audit notes.
type DisputeGate struct {
	tasks    *store.TaskStore
	reports  *store.ReportStore
	archiver ReportArchiver
}

// NewDisputeGate creates the dispute gate. archiver may be nil.
func NewDisputeGate(tasks *store.TaskStore, reports *store.ReportStore, archiver ReportArchiver) *DisputeGate {
	return &DisputeGate{tasks: tasks, reports: reports, archiver: archiver}
}

// Freeze places the task under review. Idempotent: if the task is already
// frozen the new cause is recorded as an audit note and the original cause
// stands.
func (g *DisputeGate) Freeze(taskID, actorID string, cause models.FreezeCause) (FreezeOutcome, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		task, err := g.tasks.Get(taskID)
		if err != nil {
			return "", err
		}
		if task.Frozen {
			note := fmt.Sprintf("additional freeze cause: %s", cause)
			if err := g.tasks.AppendNote(taskID, actorID, note); err != nil {
				return "", err
			}
			return FreezeAlreadyFrozen, nil
		}

		_, err = g.tasks.CompareAndSwap(taskID, task.Version, actorID, func(t *models.Task) error {
			if t.Frozen {
				// Lost the race to another freeze; handled on re-read.
				return models.NewError(models.ErrConflict, "task froze concurrently")
			}
			g.applyFreeze(t, cause)
			return nil
		})
		if err == nil {
			log.Printf("[DISPUTE] task %s frozen, cause=%s, actor=%s", taskID, cause, actorID)
			return FreezeApplied, nil
		}
		if !models.IsKind(err, models.ErrConflict) {
			return "", err
		}
	}
	return "", models.NewError(models.ErrBusy, "task is busy, try again")
}

// applyFreeze marks t frozen inside a compare-and-swap mutation so the
// triggering state change and the freeze land in one write. The caller has
// already checked t is not frozen.
func (g *DisputeGate) applyFreeze(t *models.Task, cause models.FreezeCause) {
	now := utils.NowUTC()
	t.Frozen = true
	t.FreezeCause = cause
	t.FrozenAt = &now
}

// FileReport validates and persists a report against the other participant
// of the task, then freezes the task. Invalid reports create nothing.
func (g *DisputeGate) FileReport(reporterID string, req models.FileReportRequest) (*models.Report, error) {
	if !models.ValidReportReason(req.Reason) {
		return nil, models.NewError(models.ErrValidation, "unknown report reason: %s", req.Reason)
	}
	if len(req.Details) > models.MaxReportDetailsLen {
		return nil, models.NewError(models.ErrValidation, "details must be at most %d characters", models.MaxReportDetailsLen)
	}

	task, err := g.tasks.Get(req.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsParticipant(reporterID) {
		return nil, models.NewError(models.ErrForbidden, "only task participants can file a report")
	}
	if req.ReportedUserID == reporterID {
		return nil, models.NewError(models.ErrValidation, "you cannot report yourself")
	}
	if !task.IsParticipant(req.ReportedUserID) {
		return nil, models.NewError(models.ErrValidation, "reported user is not a participant of this task")
	}

	report := models.Report{
		ID:             utils.GenerateUUID(),
		TaskID:         req.TaskID,
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
		Details:        strings.TrimSpace(req.Details),
		CreatedAt:      utils.NowUTC(),
	}
	g.reports.Add(report)
	if g.archiver != nil {
		g.archiver.ArchiveReport(report)
	}

	if _, err := g.Freeze(req.TaskID, reporterID, models.FreezeCauseReport); err != nil {
		return nil, err
	}
	log.Printf("[DISPUTE] report %s filed on task %s by %s (reason=%s)", report.ID, req.TaskID, reporterID, req.Reason)
	return &report, nil
}

// ReportsForTask returns the reports filed against a task
func (g *DisputeGate) ReportsForTask(taskID string) []models.Report {
	return g.reports.ListByTask(taskID)
}

// Resolve applies a manual review outcome to a frozen task and lifts the
// freeze. This is the only operation allowed to clear the frozen flag.
func (g *DisputeGate) Resolve(taskID, adminID string, outcome models.ResolveOutcome) (*models.Task, error) {
	if !models.ValidResolveOutcome(outcome) {
		return nil, models.NewError(models.ErrValidation, "unknown resolve outcome: %s", outcome)
	}

	task, err := transition(g.tasks, taskID, adminID, func(t *models.Task) error {
		if !t.Frozen {
			return models.NewTransitionError(string(t.Status), "task is not under review")
		}
		t.Frozen = false
		t.FreezeCause = ""
		t.FrozenAt = nil

		switch outcome {
		case models.ResolveForceClose:
			t.CompletionState = models.CompletionConfirmed
			t.Status = models.TaskStatusDone
		case models.ResolveForceRefund:
			t.PaymentState = models.PaymentNotPaid
		case models.ResolveReopen:
			if t.PaymentState == models.PaymentDisputed {
				t.PaymentState = models.PaymentMarkedPaid
			}
			if t.CompletionState == models.CompletionDisputed {
				t.CompletionState = models.CompletionMarkedCompleted
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := g.tasks.AppendNote(taskID, adminID, fmt.Sprintf("review resolved: %s", outcome)); err != nil {
		log.Printf("[DISPUTE] WARNING: failed to record resolve note for task %s: %v", taskID, err)
	}
	log.Printf("[DISPUTE] task %s resolved by %s, outcome=%s", taskID, adminID, outcome)
	return task, nil
}
