package workflow

import (
	"strings"

	workflowerrors "go-pfund/internal/workflow/errors"
)

type Domain string

const (
	DomainLoan       Domain = "loan"
	DomainWithdrawal Domain = "withdrawal"
)

type Status string

const (
	StatusPending           Status = "PENDING"
	StatusIncomplete        Status = "INCOMPLETE"
	StatusUnderReview       Status = "UNDER_REVIEW_OFFICER"
	StatusAwaitingApprovals Status = "AWAITING_APPROVALS"
	StatusApproved          Status = "APPROVED"
	StatusReleased          Status = "RELEASED"
	StatusProcessed         Status = "PROCESSED"
	StatusRejected          Status = "REJECTED"
	StatusCancelled         Status = "CANCELLED"
)

type Action string

const (
	ActionMarkIncomplete Action = "MARK_INCOMPLETE"
	ActionMarkReady      Action = "MARK_READY"
	ActionMoveToReview   Action = "MOVE_TO_REVIEW"
	ActionApprove        Action = "APPROVE"
	ActionReject         Action = "REJECT"
	ActionRelease        Action = "RELEASE"
	ActionCancel         Action = "CANCEL"
)

// transitions holds one table per domain. The withdrawal table intentionally
// has no AWAITING_APPROVALS stage: the officer decision at review approves or
// rejects directly, there is no approver chain for withdrawals.
var transitions = map[Domain]map[Status]map[Action]Status{
	DomainLoan: {
		StatusPending: {
			ActionMarkIncomplete: StatusIncomplete,
			ActionMarkReady:      StatusUnderReview,
			ActionCancel:         StatusCancelled,
		},
		StatusIncomplete: {
			ActionMarkReady: StatusUnderReview,
			ActionCancel:    StatusCancelled,
		},
		StatusUnderReview: {
			ActionMarkIncomplete: StatusIncomplete,
			ActionMoveToReview:   StatusAwaitingApprovals,
			ActionCancel:         StatusCancelled,
		},
		StatusAwaitingApprovals: {
			ActionApprove: StatusApproved,
			ActionReject:  StatusRejected,
			ActionCancel:  StatusCancelled,
		},
		StatusApproved: {
			ActionRelease: StatusReleased,
			ActionCancel:  StatusCancelled,
		},
	},
	DomainWithdrawal: {
		StatusPending: {
			ActionMarkIncomplete: StatusIncomplete,
			ActionMarkReady:      StatusUnderReview,
			ActionCancel:         StatusCancelled,
		},
		StatusIncomplete: {
			ActionMarkReady: StatusUnderReview,
			ActionCancel:    StatusCancelled,
		},
		StatusUnderReview: {
			ActionMarkIncomplete: StatusIncomplete,
			ActionApprove:        StatusApproved,
			ActionReject:         StatusRejected,
			ActionCancel:         StatusCancelled,
		},
		StatusApproved: {
			ActionRelease: StatusProcessed,
			ActionCancel:  StatusCancelled,
		},
	},
}

// Next validates an action against the domain's transition table and returns
// the resulting status.
func Next(domain Domain, from Status, action Action) (Status, error) {
	table, ok := transitions[domain]
	if !ok {
		return "", workflowerrors.ErrInvalidStateTransition
	}
	to, ok := table[from][action]
	if !ok {
		return "", workflowerrors.ErrInvalidStateTransition
	}
	return to, nil
}

// CanTransition reports whether the action is legal without applying it.
func CanTransition(domain Domain, from Status, action Action) bool {
	_, err := Next(domain, from, action)
	return err == nil
}

func IsTerminal(s Status) bool {
	switch s {
	case StatusReleased, StatusProcessed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// RequiresReason lists the actions the engine refuses without a non-empty
// reason. Callers may pre-fill defaults, the engine never accepts blank.
func RequiresReason(action Action) bool {
	switch action {
	case ActionMarkIncomplete, ActionReject, ActionCancel:
		return true
	}
	return false
}

// ValidateReason trims and enforces RequiresReason.
func ValidateReason(action Action, reason string) error {
	if RequiresReason(action) && strings.TrimSpace(reason) == "" {
		return workflowerrors.ErrReasonRequired
	}
	return nil
}
