package models

import "time"

// ReportReason enumerates the accepted reasons for reporting a user on a task
type ReportReason string

const (
	ReasonTaskNotCompleted   ReportReason = "TASK_NOT_COMPLETED"
	ReasonPaymentIssue       ReportReason = "PAYMENT_ISSUE"
	ReasonSuspiciousBehavior ReportReason = "SUSPICIOUS_BEHAVIOR"
	ReasonHarassment         ReportReason = "HARASSMENT"
	ReasonOther              ReportReason = "OTHER"
)

// MaxReportDetailsLen bounds the free-text details field of a report
const MaxReportDetailsLen = 2000

// ValidReportReason reports whether r is one of the enumerated reasons
func ValidReportReason(r ReportReason) bool {
	switch r {
	case ReasonTaskNotCompleted, ReasonPaymentIssue, ReasonSuspiciousBehavior, ReasonHarassment, ReasonOther:
		return true
	}
	return false
}

// Report is an immutable user report filed against the other participant of
// a task. Filing a report always places the task under review.
type Report struct {
	ID             string       `json:"id" bson:"_id"`
	TaskID         string       `json:"taskId" bson:"taskId"`
	ReporterID     string       `json:"reporterId" bson:"reporterId"`
	ReportedUserID string       `json:"reportedUserId" bson:"reportedUserId"`
	Reason         ReportReason `json:"reason" bson:"reason"`
	Details        string       `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
}
