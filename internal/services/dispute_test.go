package services

import (
	"strings"
	"testing"

	"runam-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeze_Applies(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	outcome, err := f.gate.Freeze(task.ID, "ops-1", models.FreezeCauseReport)
	require.NoError(t, err)
	assert.Equal(t, FreezeApplied, outcome)

	current, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.True(t, current.Frozen)
	assert.Equal(t, models.FreezeCauseReport, current.FreezeCause)
	require.NotNil(t, current.FrozenAt)
}

// Freezing twice succeeds but the first cause stands; the second lands in
// the audit trail only.
func TestFreeze_Idempotent(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	outcome, err := f.gate.Freeze(task.ID, "runner-1", models.FreezeCausePaymentDispute)
	require.NoError(t, err)
	require.Equal(t, FreezeApplied, outcome)

	frozen, err := f.tasks.Get(task.ID)
	require.NoError(t, err)

	outcome, err = f.gate.Freeze(task.ID, "poster-1", models.FreezeCauseReport)
	require.NoError(t, err)
	assert.Equal(t, FreezeAlreadyFrozen, outcome)

	current, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FreezeCausePaymentDispute, current.FreezeCause)
	assert.Equal(t, frozen.Version, current.Version)

	history, err := f.tasks.History(task.ID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Contains(t, last.Note, "additional freeze cause: report")
}

func validReport(taskID string) models.FileReportRequest {
	return models.FileReportRequest{
		TaskID:         taskID,
		ReportedUserID: "runner-1",
		Reason:         models.ReasonTaskNotCompleted,
		Details:        "Runner never showed up",
	}
}

func TestFileReport_FreezesTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	report, err := f.gate.FileReport("poster-1", validReport(task.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "poster-1", report.ReporterID)
	assert.Equal(t, "runner-1", report.ReportedUserID)

	current, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.True(t, current.Frozen)
	assert.Equal(t, models.FreezeCauseReport, current.FreezeCause)

	stored := f.gate.ReportsForTask(task.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, report.ID, stored[0].ID)
}

// Reporting an already-frozen task still succeeds for the reporter
func TestFileReport_OnFrozenTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.payment.MarkPaid(task.ID, "poster-1")
	require.NoError(t, err)
	_, err = f.payment.DisputePayment(task.ID, "runner-1")
	require.NoError(t, err)

	report, err := f.gate.FileReport("poster-1", validReport(task.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)

	current, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FreezeCausePaymentDispute, current.FreezeCause) // first cause wins
}

func TestFileReport_RejectsInvalidInput(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	tests := []struct {
		name     string
		reporter string
		mutate   func(*models.FileReportRequest)
		kind     models.ErrorKind
	}{
		{
			name:     "unknown reason",
			reporter: "poster-1",
			mutate:   func(r *models.FileReportRequest) { r.Reason = "BAD_VIBES" },
			kind:     models.ErrValidation,
		},
		{
			name:     "details too long",
			reporter: "poster-1",
			mutate:   func(r *models.FileReportRequest) { r.Details = strings.Repeat("x", models.MaxReportDetailsLen+1) },
			kind:     models.ErrValidation,
		},
		{
			name:     "reported user not a participant",
			reporter: "poster-1",
			mutate:   func(r *models.FileReportRequest) { r.ReportedUserID = "stranger" },
			kind:     models.ErrValidation,
		},
		{
			name:     "self report",
			reporter: "poster-1",
			mutate:   func(r *models.FileReportRequest) { r.ReportedUserID = "poster-1" },
			kind:     models.ErrValidation,
		},
		{
			name:     "reporter not a participant",
			reporter: "stranger",
			mutate:   func(r *models.FileReportRequest) {},
			kind:     models.ErrForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validReport(task.ID)
			tc.mutate(&req)

			_, err := f.gate.FileReport(tc.reporter, req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, models.KindOf(err))
		})
	}

	// No report stored, no freeze applied by any of the rejected attempts
	assert.Empty(t, f.gate.ReportsForTask(task.ID))
	current, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.False(t, current.Frozen)
}

func TestResolve_RequiresFrozenTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.gate.Resolve(task.ID, "ops-1", models.ResolveReopen)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidTransition, models.KindOf(err))
}

func TestResolve_UnknownOutcome(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.gate.Resolve(task.ID, "ops-1", "flip_a_coin")
	require.Error(t, err)
	assert.Equal(t, models.ErrValidation, models.KindOf(err))
}

func TestResolve_ReopenRollsBackDispute(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.payment.MarkPaid(task.ID, "poster-1")
	require.NoError(t, err)
	_, err = f.payment.DisputePayment(task.ID, "runner-1")
	require.NoError(t, err)

	resolved, err := f.gate.Resolve(task.ID, "ops-1", models.ResolveReopen)
	require.NoError(t, err)
	assert.False(t, resolved.Frozen)
	assert.Empty(t, resolved.FreezeCause)
	assert.Nil(t, resolved.FrozenAt)
	assert.Equal(t, models.PaymentMarkedPaid, resolved.PaymentState)

	// The parties can try again
	_, err = f.payment.ConfirmPayment(task.ID, "runner-1")
	require.NoError(t, err)
}

func TestResolve_ForceClose(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.completion.MarkCompleted(task.ID, "runner-1")
	require.NoError(t, err)
	_, err = f.completion.DisputeCompletion(task.ID, "poster-1")
	require.NoError(t, err)

	resolved, err := f.gate.Resolve(task.ID, "ops-1", models.ResolveForceClose)
	require.NoError(t, err)
	assert.False(t, resolved.Frozen)
	assert.Equal(t, models.TaskStatusDone, resolved.Status)
	assert.Equal(t, models.CompletionConfirmed, resolved.CompletionState)
}

func TestResolve_ForceRefund(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.payment.MarkPaid(task.ID, "poster-1")
	require.NoError(t, err)
	_, err = f.payment.DisputePayment(task.ID, "runner-1")
	require.NoError(t, err)

	resolved, err := f.gate.Resolve(task.ID, "ops-1", models.ResolveForceRefund)
	require.NoError(t, err)
	assert.False(t, resolved.Frozen)
	assert.Equal(t, models.PaymentNotPaid, resolved.PaymentState)
}
