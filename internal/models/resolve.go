package models

// ResolveOutcome is the terminal decision an operator applies to a frozen
// task. Resolution policy itself (who decides, on what evidence) lives in
// the manual review process, not in this backend.
type ResolveOutcome string

const (
	// ResolveForceClose closes the task as if completion had been confirmed
	ResolveForceClose ResolveOutcome = "force_close"
	// ResolveForceRefund resets the payment attestation to not-paid
	ResolveForceRefund ResolveOutcome = "force_refund"
	// ResolveReopen lifts the freeze and rolls disputed tracks back to their
	// pre-dispute state so the parties can try again
	ResolveReopen ResolveOutcome = "reopen"
)

// ValidResolveOutcome reports whether o is one of the enumerated outcomes
func ValidResolveOutcome(o ResolveOutcome) bool {
	switch o {
	case ResolveForceClose, ResolveForceRefund, ResolveReopen:
		return true
	}
	return false
}
