package models

// CreateTaskRequest represents the request to post a new task
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Budget      int      `json:"budget" binding:"required,gt=0"`
	TimeWindow  string   `json:"timeWindow"` // Optional: "Now", "Today", "Flexible"
	Location    Location `json:"location" binding:"required"`
}

// FileReportRequest represents the request to report the other participant of a task
type FileReportRequest struct {
	TaskID         string       `json:"taskId" binding:"required"`
	ReportedUserID string       `json:"reportedUserId" binding:"required"`
	Reason         ReportReason `json:"reason" binding:"required"`
	Details        string       `json:"details"`
}

// SendMessageRequest represents the request to append a chat message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// ResolveRequest represents the manual review outcome applied to a frozen task
type ResolveRequest struct {
	Outcome ResolveOutcome `json:"outcome" binding:"required"`
}

// DevTokenRequest represents the request to mint a development JWT.
// Production identity (OTP login) is handled by a separate auth service.
type DevTokenRequest struct {
	UserID string `json:"userId" binding:"required"`
	Name   string `json:"name"`
}

// TaskSnapshot is the task view returned by every mutating operation. The
// version field is an opaque staleness token for polling clients.
type TaskSnapshot struct {
	ID              string          `json:"id"`
	PosterID        string          `json:"posterId"`
	RunnerID        string          `json:"runnerId,omitempty"`
	Title           string          `json:"title"`
	Budget          int             `json:"budget"`
	Status          TaskStatus      `json:"status"`
	PaymentState    PaymentState    `json:"paymentStatus"`
	CompletionState CompletionState `json:"completionStatus"`
	Frozen          bool            `json:"frozen"`
	Version         int64           `json:"version"`
}

// Snapshot builds the polling snapshot of a task
func Snapshot(t *Task) TaskSnapshot {
	return TaskSnapshot{
		ID:              t.ID,
		PosterID:        t.PosterID,
		RunnerID:        t.RunnerID,
		Title:           t.Title,
		Budget:          t.Budget,
		Status:          t.Status,
		PaymentState:    t.PaymentState,
		CompletionState: t.CompletionState,
		Frozen:          t.Frozen,
		Version:         t.Version,
	}
}

// NearbyTask is a task in the feed with its distance from the caller
type NearbyTask struct {
	Task
	DistanceKm float64 `json:"distance"`
}
