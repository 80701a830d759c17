package workflow

import "github.com/google/uuid"

// Roles carried in the JWT. HRRole is the finer HR sub-role and only
// meaningful for OFFICER/ASSISTANT accounts.
const (
	RoleMember    = "MEMBER"
	RoleAssistant = "ASSISTANT"
	RoleOfficer   = "OFFICER"
	RoleAdmin     = "ADMIN"

	HRRoleReviewer = "REVIEWER"
	HRRoleReleaser = "RELEASER"
)

type Actor struct {
	EmployeeID uuid.UUID
	Role       string
	HRRole     string
}

func (a Actor) isStaff() bool {
	return a.Role == RoleOfficer || a.Role == RoleAssistant || a.Role == RoleAdmin
}

func (a Actor) canRelease() bool {
	return a.Role == RoleAdmin || (a.Role == RoleOfficer && a.HRRole == HRRoleReleaser)
}

// AccessFlags is derived, never stored. It is recomputed on every call from
// the same snapshot as the status so the UI can never act on stale
// permissions.
type AccessFlags struct {
	CanEdit            bool `json:"can_edit"`
	CanMarkReady       bool `json:"can_mark_ready"`
	CanMarkIncomplete  bool `json:"can_mark_incomplete"`
	CanMoveToReview    bool `json:"can_move_to_review"`
	CanAssignApprovers bool `json:"can_assign_approvers"`
	CanApprove         bool `json:"can_approve"`
	CanReject          bool `json:"can_reject"`
	CanRelease         bool `json:"can_release"`
	CanCancel          bool `json:"can_cancel"`
}

// ResolveAccess computes the flag set for one actor against one request
// snapshot. currentApprover is nil when the request has no active chain
// (withdrawals, or a loan chain that is resolved or not yet assigned).
func ResolveAccess(
	domain Domain,
	status Status,
	applicantID uuid.UUID,
	currentApprover *uuid.UUID,
	actor Actor,
) AccessFlags {
	var f AccessFlags

	isApplicant := actor.EmployeeID == applicantID

	f.CanEdit = isApplicant &&
		(status == StatusPending || status == StatusIncomplete)

	f.CanMarkReady = actor.isStaff() &&
		CanTransition(domain, status, ActionMarkReady)

	f.CanMarkIncomplete = actor.isStaff() &&
		CanTransition(domain, status, ActionMarkIncomplete)

	f.CanMoveToReview = actor.Role == RoleOfficer &&
		CanTransition(domain, status, ActionMoveToReview)

	// Chains exist for loans only, and may be staged while the officer still
	// holds the request or while approvals are already running.
	f.CanAssignApprovers = domain == DomainLoan &&
		actor.Role == RoleOfficer &&
		(status == StatusUnderReview || status == StatusAwaitingApprovals)

	switch domain {
	case DomainLoan:
		// Only the current step's approver may decide.
		isCurrent := currentApprover != nil && *currentApprover == actor.EmployeeID
		f.CanApprove = isCurrent && status == StatusAwaitingApprovals
		f.CanReject = isCurrent && status == StatusAwaitingApprovals
	case DomainWithdrawal:
		f.CanApprove = actor.Role == RoleOfficer &&
			CanTransition(domain, status, ActionApprove)
		f.CanReject = actor.Role == RoleOfficer &&
			CanTransition(domain, status, ActionReject)
	}

	f.CanRelease = actor.canRelease() &&
		CanTransition(domain, status, ActionRelease)

	f.CanCancel = (isApplicant || actor.Role == RoleOfficer || actor.Role == RoleAdmin) &&
		CanTransition(domain, status, ActionCancel)

	return f
}
