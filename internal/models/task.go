package models

import "time"

// TaskStatus represents the top-level lifecycle of a task
type TaskStatus string

const (
	TaskStatusOpen     TaskStatus = "open"
	TaskStatusAccepted TaskStatus = "accepted"
	TaskStatusDone     TaskStatus = "done"
)

// PaymentState represents the payment attestation track of a task.
// Payment is attested by the parties; no money ever moves through the backend.
type PaymentState string

const (
	PaymentNotPaid    PaymentState = "NOT_PAID"
	PaymentMarkedPaid PaymentState = "MARKED_PAID"
	PaymentConfirmed  PaymentState = "CONFIRMED"
	PaymentDisputed   PaymentState = "DISPUTED"
)

// CompletionState represents the work-completion attestation track of a task
type CompletionState string

const (
	CompletionNotStarted      CompletionState = "NOT_STARTED"
	CompletionMarkedCompleted CompletionState = "MARKED_COMPLETED"
	CompletionConfirmed       CompletionState = "CONFIRMED"
	CompletionDisputed        CompletionState = "DISPUTED"
)

// FreezeCause records why a task was placed under manual review.
// The first cause wins; later causes become audit notes only.
type FreezeCause string

const (
	FreezeCausePaymentDispute    FreezeCause = "payment_dispute"
	FreezeCauseCompletionDispute FreezeCause = "completion_dispute"
	FreezeCauseReport            FreezeCause = "report"
)

// Location is a point with a human-readable label
type Location struct {
	Lat   float64 `json:"lat" bson:"lat"`
	Lng   float64 `json:"lng" bson:"lng"`
	Label string  `json:"label" bson:"label"`
}

// Task is an errand posted by a poster and run by at most one runner.
// Tasks are never deleted; they are retained as an audit trail.
type Task struct {
	ID          string   `json:"id" bson:"_id"`
	PosterID    string   `json:"posterId" bson:"posterId"`
	RunnerID    string   `json:"runnerId,omitempty" bson:"runnerId,omitempty"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Budget      int      `json:"budget" bson:"budget"`
	TimeWindow  string   `json:"timeWindow,omitempty" bson:"timeWindow,omitempty"` // "Now", "Today", "Flexible"
	Location    Location `json:"location" bson:"location"`

	Status          TaskStatus      `json:"status" bson:"status"`
	PaymentState    PaymentState    `json:"paymentStatus" bson:"paymentStatus"`
	CompletionState CompletionState `json:"completionStatus" bson:"completionStatus"`

	Frozen      bool        `json:"frozen" bson:"frozen"`
	FreezeCause FreezeCause `json:"freezeCause,omitempty" bson:"freezeCause,omitempty"`
	FrozenAt    *time.Time  `json:"frozenAt,omitempty" bson:"frozenAt,omitempty"`

	// Version is incremented on every successful write. Clients treat it as
	// an opaque staleness token; the store uses it for compare-and-swap.
	Version int64 `json:"version" bson:"version"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsParticipant reports whether userID is the poster or the assigned runner
func (t *Task) IsParticipant(userID string) bool {
	return userID != "" && (t.PosterID == userID || t.RunnerID == userID)
}
