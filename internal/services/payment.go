package services

import (
	"log"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// PaymentTrack is the state machine for payment attestation. The poster
// attests they paid outside the app; the runner confirms or disputes.
//
//	NOT_PAID --MarkPaid(poster)--> MARKED_PAID
//	MARKED_PAID --ConfirmPayment(runner)--> CONFIRMED
//	MARKED_PAID --DisputePayment(runner)--> DISPUTED (freezes the task)
type PaymentTrack struct {
	tasks *store.TaskStore
	gate  *DisputeGate
}

// NewPaymentTrack creates the payment track over the task store
func NewPaymentTrack(tasks *store.TaskStore, gate *DisputeGate) *PaymentTrack {
	return &PaymentTrack{tasks: tasks, gate: gate}
}

// MarkPaid records the poster's attestation that payment happened
func (p *PaymentTrack) MarkPaid(taskID, actorID string) (*models.Task, error) {
	return transition(p.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.PosterID != actorID {
			return models.NewError(models.ErrForbidden, "only the poster can mark payment as made")
		}
		if t.PaymentState != models.PaymentNotPaid {
			return models.NewTransitionError(string(t.PaymentState), "payment cannot be marked from this state")
		}
		t.PaymentState = models.PaymentMarkedPaid
		return nil
	})
}

// ConfirmPayment records the runner's confirmation of receipt
func (p *PaymentTrack) ConfirmPayment(taskID, actorID string) (*models.Task, error) {
	return transition(p.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.RunnerID != actorID {
			return models.NewError(models.ErrForbidden, "only the runner can confirm payment")
		}
		if t.PaymentState != models.PaymentMarkedPaid {
			return models.NewTransitionError(string(t.PaymentState), "payment has not been marked as made")
		}
		t.PaymentState = models.PaymentConfirmed
		return nil
	})
}

// DisputePayment records the runner's claim that the marked payment never
// arrived and places the task under review. Disputed state and freeze land
// in the same swap; no reader ever sees one without the other.
func (p *PaymentTrack) DisputePayment(taskID, actorID string) (*models.Task, error) {
	task, err := transition(p.tasks, taskID, actorID, func(t *models.Task) error {
		if err := guardActive(t); err != nil {
			return err
		}
		if t.RunnerID != actorID {
			return models.NewError(models.ErrForbidden, "only the runner can dispute payment")
		}
		if t.PaymentState != models.PaymentMarkedPaid {
			return models.NewTransitionError(string(t.PaymentState), "payment has not been marked as made")
		}
		t.PaymentState = models.PaymentDisputed
		p.gate.applyFreeze(t, models.FreezeCausePaymentDispute)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYMENT] task %s disputed by runner %s, under review", taskID, actorID)
	return task, nil
}
