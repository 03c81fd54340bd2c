package models

import "time"

// AuditEntry records one field change on a task: who changed what, old value
// to new value, and when. The per-task sequence of entries is the single
// linearizable history used during dispute review.
type AuditEntry struct {
	ID        string    `json:"id" bson:"_id"`
	TaskID    string    `json:"taskId" bson:"taskId"`
	ActorID   string    `json:"actorId" bson:"actorId"`
	Field     string    `json:"field" bson:"field"`
	OldValue  string    `json:"oldValue" bson:"oldValue"`
	NewValue  string    `json:"newValue" bson:"newValue"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
