package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveAccess_ApplicantOnDraft(t *testing.T) {
	applicant := uuid.New()
	actor := Actor{EmployeeID: applicant, Role: RoleMember}

	flags := ResolveAccess(DomainLoan, StatusPending, applicant, nil, actor)
	assert.True(t, flags.CanEdit)
	assert.True(t, flags.CanCancel)
	assert.False(t, flags.CanMarkReady)
	assert.False(t, flags.CanApprove)
	assert.False(t, flags.CanRelease)

	flags = ResolveAccess(DomainLoan, StatusIncomplete, applicant, nil, actor)
	assert.True(t, flags.CanEdit)

	// Once the request leaves the applicant's hands editing stops.
	flags = ResolveAccess(DomainLoan, StatusUnderReview, applicant, nil, actor)
	assert.False(t, flags.CanEdit)
	assert.True(t, flags.CanCancel)
}

func TestResolveAccess_OtherMemberSeesNothing(t *testing.T) {
	actor := Actor{EmployeeID: uuid.New(), Role: RoleMember}
	flags := ResolveAccess(DomainLoan, StatusPending, uuid.New(), nil, actor)
	assert.Equal(t, AccessFlags{}, flags)
}

func TestResolveAccess_OfficerOnLoanReview(t *testing.T) {
	actor := Actor{EmployeeID: uuid.New(), Role: RoleOfficer, HRRole: HRRoleReviewer}

	flags := ResolveAccess(DomainLoan, StatusUnderReview, uuid.New(), nil, actor)
	assert.True(t, flags.CanMoveToReview)
	assert.True(t, flags.CanMarkIncomplete)
	assert.True(t, flags.CanAssignApprovers)
	assert.True(t, flags.CanCancel)
	// Loan decisions belong to the chain, never the officer directly.
	assert.False(t, flags.CanApprove)
	assert.False(t, flags.CanReject)
}

func TestResolveAccess_ChainApproverGating(t *testing.T) {
	current := uuid.New()
	other := uuid.New()

	flags := ResolveAccess(DomainLoan, StatusAwaitingApprovals, uuid.New(), &current,
		Actor{EmployeeID: current, Role: RoleOfficer})
	assert.True(t, flags.CanApprove)
	assert.True(t, flags.CanReject)

	// An assigned but not-yet-current approver must wait their turn.
	flags = ResolveAccess(DomainLoan, StatusAwaitingApprovals, uuid.New(), &current,
		Actor{EmployeeID: other, Role: RoleOfficer})
	assert.False(t, flags.CanApprove)
	assert.False(t, flags.CanReject)

	// No active chain, nobody can decide.
	flags = ResolveAccess(DomainLoan, StatusAwaitingApprovals, uuid.New(), nil,
		Actor{EmployeeID: current, Role: RoleOfficer})
	assert.False(t, flags.CanApprove)
}

func TestResolveAccess_WithdrawalOfficerDecidesDirectly(t *testing.T) {
	officer := Actor{EmployeeID: uuid.New(), Role: RoleOfficer, HRRole: HRRoleReviewer}

	flags := ResolveAccess(DomainWithdrawal, StatusUnderReview, uuid.New(), nil, officer)
	assert.True(t, flags.CanApprove)
	assert.True(t, flags.CanReject)
	assert.False(t, flags.CanAssignApprovers)
	assert.False(t, flags.CanMoveToReview)
}

func TestResolveAccess_ReleaseNeedsReleaserRole(t *testing.T) {
	reviewer := Actor{EmployeeID: uuid.New(), Role: RoleOfficer, HRRole: HRRoleReviewer}
	releaser := Actor{EmployeeID: uuid.New(), Role: RoleOfficer, HRRole: HRRoleReleaser}
	admin := Actor{EmployeeID: uuid.New(), Role: RoleAdmin}

	assert.False(t, ResolveAccess(DomainLoan, StatusApproved, uuid.New(), nil, reviewer).CanRelease)
	assert.True(t, ResolveAccess(DomainLoan, StatusApproved, uuid.New(), nil, releaser).CanRelease)
	assert.True(t, ResolveAccess(DomainLoan, StatusApproved, uuid.New(), nil, admin).CanRelease)

	assert.True(t, ResolveAccess(DomainWithdrawal, StatusApproved, uuid.New(), nil, releaser).CanRelease)
	assert.False(t, ResolveAccess(DomainWithdrawal, StatusPending, uuid.New(), nil, releaser).CanRelease)
}

func TestResolveAccess_AssistantPreScreens(t *testing.T) {
	assistant := Actor{EmployeeID: uuid.New(), Role: RoleAssistant}

	flags := ResolveAccess(DomainLoan, StatusPending, uuid.New(), nil, assistant)
	assert.True(t, flags.CanMarkReady)
	assert.True(t, flags.CanMarkIncomplete)
	assert.False(t, flags.CanMoveToReview)
	assert.False(t, flags.CanAssignApprovers)
	assert.False(t, flags.CanCancel)
}

func TestResolveAccess_TerminalStatusFreezesEverything(t *testing.T) {
	applicant := uuid.New()
	admin := Actor{EmployeeID: uuid.New(), Role: RoleAdmin}

	for _, status := range []Status{StatusReleased, StatusRejected, StatusCancelled} {
		flags := ResolveAccess(DomainLoan, status, applicant, nil, admin)
		assert.Equal(t, AccessFlags{}, flags, "no capability should survive %s", status)
	}
}
