package events

import "time"

const (
	LoanWorkflowTopic       = "pf.loan.workflow.v1"
	WithdrawalWorkflowTopic = "pf.withdrawal.workflow.v1"
)

// WorkflowTransitionedEvent is emitted after every committed status change,
// for both loans and withdrawals. Consumers (mail, in-app notification) are
// best-effort: a lost event never affects request state.
type WorkflowTransitionedEvent struct {
	EventType   string    `json:"event_type"`
	Domain      string    `json:"domain"`
	RequestID   string    `json:"request_id"`
	ApplicantID string    `json:"applicant_id"`
	Action      string    `json:"action"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func TopicFor(domain string) string {
	if domain == "withdrawal" {
		return WithdrawalWorkflowTopic
	}
	return LoanWorkflowTopic
}
