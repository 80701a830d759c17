package loan

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-pfund/internal/approval"
	approvalerrors "go-pfund/internal/approval/errors"
	documenterrors "go-pfund/internal/document/errors"
	"go-pfund/internal/history"
	loanerrors "go-pfund/internal/loan/errors"
	membererrors "go-pfund/internal/member/errors"
	"go-pfund/internal/messaging/kafka"
	"go-pfund/internal/workflow"
	workflowerrors "go-pfund/internal/workflow/errors"
)

type fakeLoanRepo struct {
	loans      map[uuid.UUID]Loan
	updateErr  error
	updateHook func(l *Loan)
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uuid.UUID]Loan)}
}

func (f *fakeLoanRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeLoanRepo) Create(ctx context.Context, l *Loan) error {
	f.loans[l.ID] = *l
	return nil
}

func (f *fakeLoanRepo) FindAll(ctx context.Context) ([]Loan, error) {
	var out []Loan
	for _, l := range f.loans {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLoanRepo) FindAllByApplicant(ctx context.Context, applicantID string) ([]Loan, error) {
	var out []Loan
	for _, l := range f.loans {
		if l.ApplicantID.String() == applicantID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) FindByID(ctx context.Context, id string) (*Loan, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	l, ok := f.loans[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

// Update mirrors the production version guard so stale writers lose.
func (f *fakeLoanRepo) Update(ctx context.Context, l *Loan) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updateHook != nil {
		f.updateHook(l)
	}
	stored, ok := f.loans[l.ID]
	if !ok || stored.Version != l.Version {
		return workflowerrors.ErrConcurrencyConflict
	}
	l.Version++
	f.loans[l.ID] = *l
	return nil
}

type memStepRepo struct {
	steps []approval.ApprovalStep
}

func (m *memStepRepo) WithTx(tx *sql.Tx) approval.Repository { return m }

func (m *memStepRepo) CreateSteps(ctx context.Context, steps []approval.ApprovalStep) error {
	m.steps = append(m.steps, steps...)
	return nil
}

func (m *memStepRepo) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]approval.ApprovalStep, error) {
	var out []approval.ApprovalStep
	for _, s := range m.steps {
		if s.RequestID == requestID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStepRepo) Update(ctx context.Context, step *approval.ApprovalStep) error {
	for i := range m.steps {
		if m.steps[i].ID == step.ID {
			m.steps[i] = *step
		}
	}
	return nil
}

func (m *memStepRepo) DeleteStep(ctx context.Context, requestID, approverID uuid.UUID) error {
	kept := m.steps[:0]
	for _, s := range m.steps {
		if s.RequestID == requestID && s.ApproverID == approverID {
			continue
		}
		kept = append(kept, s)
	}
	m.steps = kept
	return nil
}

func (m *memStepRepo) SaveAll(ctx context.Context, steps []approval.ApprovalStep) error {
	for i := range steps {
		if err := m.Update(ctx, &steps[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeHistoryRepo struct {
	entries []history.HistoryEntry
}

func (f *fakeHistoryRepo) WithTx(tx *sql.Tx) history.Repository { return f }

func (f *fakeHistoryRepo) Append(ctx context.Context, e *history.HistoryEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeHistoryRepo) FindByRequest(ctx context.Context, requestID uuid.UUID, domain string, newestFirst bool) ([]history.HistoryEntry, error) {
	var out []history.HistoryEntry
	for _, e := range f.entries {
		if e.RequestID == requestID && e.Domain == domain {
			out = append(out, e)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

type fakeChecker struct {
	complete bool
	missing  []string
}

func (f *fakeChecker) IsComplete(ctx context.Context, domain string, requestID uuid.UUID) (bool, []string, error) {
	return f.complete, f.missing, nil
}

type fakeBalances struct {
	ok bool
}

func (f *fakeBalances) HasVestedBalance(ctx context.Context, employeeID uuid.UUID, amount float64) (bool, error) {
	return f.ok, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type loanFixture struct {
	svc     Service
	mock    sqlmock.Sqlmock
	repo    *fakeLoanRepo
	steps   *memStepRepo
	hist    *fakeHistoryRepo
	docs    *fakeChecker
	outbox  *fakeOutbox
	cleanup func()
}

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := newFakeLoanRepo()
	steps := &memStepRepo{}
	hist := &fakeHistoryRepo{}
	docs := &fakeChecker{complete: true}
	outbox := &fakeOutbox{}
	svc := NewService(db, repo, approval.NewManager(steps), hist, docs, &fakeBalances{ok: true}, outbox)

	return &loanFixture{
		svc:     svc,
		mock:    mock,
		repo:    repo,
		steps:   steps,
		hist:    hist,
		docs:    docs,
		outbox:  outbox,
		cleanup: func() { db.Close() },
	}
}

func (f *loanFixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *loanFixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func (f *loanFixture) seed(applicant uuid.UUID, status workflow.Status) uuid.UUID {
	id := uuid.New()
	f.repo.loans[id] = Loan{
		ID:          id,
		ApplicantID: applicant,
		LoanType:    TypePersonal,
		Amount:      50_000_000,
		TermMonths:  24,
		Status:      string(status),
	}
	return id
}

func TestLoanService_Apply(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	applicant := uuid.New()
	actor := workflow.Actor{EmployeeID: applicant, Role: workflow.RoleMember}

	f.expectTx()
	resp, err := f.svc.Apply(context.Background(), actor, CreateLoanRequest{
		LoanType:   TypeHousing,
		Amount:     120_000_000,
		TermMonths: 60,
		Purpose:    "renovasi rumah",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusPending), resp.Loan.Status)
	assert.True(t, resp.Access.CanEdit)

	assert.Len(t, f.hist.entries, 1)
	assert.Equal(t, "APPLY", f.hist.entries[0].Action)

	assert.Len(t, f.outbox.events, 1)
	assert.Equal(t, "loan.apply", f.outbox.events[0].EventType)
	assert.Equal(t, kafka.OutboxStatusPending, f.outbox.events[0].Status)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_Apply_Validation(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	actor := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleMember}

	_, err := f.svc.Apply(context.Background(), actor, CreateLoanRequest{
		LoanType: TypePersonal, Amount: -5, TermMonths: 24,
	})
	assert.True(t, errors.Is(err, loanerrors.ErrInvalidAmount))

	_, err = f.svc.Apply(context.Background(), actor, CreateLoanRequest{
		LoanType: TypePersonal, Amount: 1_000_000, TermMonths: 3,
	})
	assert.True(t, errors.Is(err, loanerrors.ErrInvalidTerm))
}

func TestLoanService_Apply_InsufficientBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeLoanRepo(), approval.NewManager(&memStepRepo{}),
		&fakeHistoryRepo{}, &fakeChecker{complete: true}, &fakeBalances{ok: false}, &fakeOutbox{})

	_, err := svc.Apply(context.Background(),
		workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleMember},
		CreateLoanRequest{LoanType: TypePersonal, Amount: 900_000_000, TermMonths: 24})
	assert.True(t, errors.Is(err, membererrors.ErrInsufficientVestedBalance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanService_MarkIncomplete_RequiresReason(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	id := f.seed(uuid.New(), workflow.StatusPending)
	actor := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleAssistant}

	_, err := f.svc.MarkIncomplete(context.Background(), actor, id.String(), "  ")
	assert.True(t, errors.Is(err, workflowerrors.ErrReasonRequired))
	// rejected before any transaction was opened
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_MarkReady_MemberForbidden(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	applicant := uuid.New()
	id := f.seed(applicant, workflow.StatusPending)

	f.expectRollback()
	_, err := f.svc.MarkReady(context.Background(),
		workflow.Actor{EmployeeID: applicant, Role: workflow.RoleMember}, id.String())
	assert.True(t, errors.Is(err, workflowerrors.ErrNotAuthorized))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_MarkReady_AssistantAssigned(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	assistant := uuid.New()
	id := f.seed(uuid.New(), workflow.StatusPending)

	f.expectTx()
	resp, err := f.svc.MarkReady(context.Background(),
		workflow.Actor{EmployeeID: assistant, Role: workflow.RoleAssistant}, id.String())
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusUnderReview), resp.Loan.Status)

	stored := f.repo.loans[id]
	assert.NotNil(t, stored.AssistantID)
	assert.Equal(t, assistant, *stored.AssistantID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_MoveToReview_BlockedByDocuments(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()
	f.docs.complete = false
	f.docs.missing = []string{"KTP", "SLIP_GAJI"}

	id := f.seed(uuid.New(), workflow.StatusUnderReview)

	_, err := f.svc.MoveToReview(context.Background(),
		workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReviewer},
		id.String())
	assert.True(t, errors.Is(err, documenterrors.ErrDocumentsIncomplete))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_MoveToReview_StampsOfficerOnce(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	officer := uuid.New()
	id := f.seed(uuid.New(), workflow.StatusUnderReview)

	f.expectTx()
	resp, err := f.svc.MoveToReview(context.Background(),
		workflow.Actor{EmployeeID: officer, Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReviewer},
		id.String())
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusAwaitingApprovals), resp.Loan.Status)

	stored := f.repo.loans[id]
	assert.NotNil(t, stored.ReviewedAt)
	assert.NotNil(t, stored.OfficerID)
	assert.Equal(t, officer, *stored.OfficerID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_ChainDecisions(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()
	ctx := context.Background()

	officer := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReviewer}
	first := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer}
	second := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer}
	id := f.seed(uuid.New(), workflow.StatusAwaitingApprovals)

	f.expectTx()
	_, err := f.svc.AssignApprovers(ctx, officer, id.String(), AssignApproversRequest{
		Approvers: []ApproverInput{
			{ApproverID: first.EmployeeID.String(), Sequence: 1},
			{ApproverID: second.EmployeeID.String(), Sequence: 2},
		},
	})
	assert.NoError(t, err)

	// out of turn
	f.expectRollback()
	_, err = f.svc.Approve(ctx, second, id.String(), "")
	assert.True(t, errors.Is(err, approvalerrors.ErrNotCurrentApprover))

	// mid-chain approval leaves the status alone but still bumps the row
	versionBefore := f.repo.loans[id].Version
	f.expectTx()
	resp, err := f.svc.Approve(ctx, first, id.String(), "layak")
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusAwaitingApprovals), resp.Loan.Status)
	assert.Greater(t, f.repo.loans[id].Version, versionBefore)
	assert.Nil(t, f.repo.loans[id].ApprovedAt)

	// final approval resolves the chain
	f.expectTx()
	resp, err = f.svc.Approve(ctx, second, id.String(), "")
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusApproved), resp.Loan.Status)

	stored := f.repo.loans[id]
	assert.NotNil(t, stored.ApprovedAt)
	assert.Nil(t, stored.RejectedAt)
	assert.Nil(t, stored.ReleasedAt)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_Reject_MidChainShortCircuits(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()
	ctx := context.Background()

	officer := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReviewer}
	first := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer}
	second := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer}
	id := f.seed(uuid.New(), workflow.StatusAwaitingApprovals)

	f.expectTx()
	_, err := f.svc.AssignApprovers(ctx, officer, id.String(), AssignApproversRequest{
		Approvers: []ApproverInput{
			{ApproverID: first.EmployeeID.String(), Sequence: 1},
			{ApproverID: second.EmployeeID.String(), Sequence: 2},
		},
	})
	assert.NoError(t, err)

	_, err = f.svc.Reject(ctx, first, id.String(), "")
	assert.True(t, errors.Is(err, workflowerrors.ErrReasonRequired))

	f.expectTx()
	resp, err := f.svc.Reject(ctx, first, id.String(), "jaminan tidak memadai")
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusRejected), resp.Loan.Status)

	stored := f.repo.loans[id]
	assert.NotNil(t, stored.RejectedAt)
	assert.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "jaminan tidak memadai", *stored.RejectionReason)
	assert.Nil(t, stored.ApprovedAt)

	// the chain is closed for the second approver
	f.expectRollback()
	_, err = f.svc.Approve(ctx, second, id.String(), "")
	assert.Error(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_Approve_NoChainAssigned(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	id := f.seed(uuid.New(), workflow.StatusAwaitingApprovals)

	f.expectRollback()
	_, err := f.svc.Approve(context.Background(),
		workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer}, id.String(), "")
	assert.True(t, errors.Is(err, approvalerrors.ErrChainNotFound))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_ConcurrentTransitionLoses(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	id := f.seed(uuid.New(), workflow.StatusPending)
	// a competing transition commits between our load and our write
	f.repo.updateHook = func(l *Loan) {
		stored := f.repo.loans[id]
		if stored.Version == l.Version {
			stored.Version++
			f.repo.loans[id] = stored
		}
		f.repo.updateHook = nil
	}

	f.expectRollback()
	_, err := f.svc.MarkReady(context.Background(),
		workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleAssistant}, id.String())
	assert.True(t, errors.Is(err, workflowerrors.ErrConcurrencyConflict))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_Release(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()
	ctx := context.Background()

	releaser := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReleaser}
	reviewer := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleOfficer, HRRole: workflow.HRRoleReviewer}
	id := f.seed(uuid.New(), workflow.StatusApproved)

	_, err := f.svc.Release(ctx, releaser, id.String(), "   ")
	assert.True(t, errors.Is(err, loanerrors.ErrBankReferenceRequired))

	f.expectRollback()
	_, err = f.svc.Release(ctx, reviewer, id.String(), "TRF/2026/08/000123")
	assert.True(t, errors.Is(err, workflowerrors.ErrNotAuthorized))

	f.expectTx()
	resp, err := f.svc.Release(ctx, releaser, id.String(), "TRF/2026/08/000123")
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StatusReleased), resp.Loan.Status)

	stored := f.repo.loans[id]
	assert.NotNil(t, stored.ReleasedAt)
	assert.Equal(t, "TRF/2026/08/000123", *stored.BankReference)

	// released is terminal
	f.expectRollback()
	_, err = f.svc.Cancel(ctx, releaser, id.String(), "salah transfer")
	assert.True(t, errors.Is(err, workflowerrors.ErrInvalidStateTransition))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_GetByID_MemberIsolation(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()

	applicant := uuid.New()
	id := f.seed(applicant, workflow.StatusPending)

	f.expectRollback()
	_, err := f.svc.GetByID(context.Background(),
		workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleMember}, id.String())
	assert.Error(t, err)

	f.expectRollback()
	resp, err := f.svc.GetByID(context.Background(),
		workflow.Actor{EmployeeID: applicant, Role: workflow.RoleMember}, id.String())
	assert.NoError(t, err)
	assert.Equal(t, id.String(), resp.Loan.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoanService_History(t *testing.T) {
	f := newLoanFixture(t)
	defer f.cleanup()
	ctx := context.Background()

	applicant := workflow.Actor{EmployeeID: uuid.New(), Role: workflow.RoleMember}

	f.expectTx()
	resp, err := f.svc.Apply(ctx, applicant, CreateLoanRequest{
		LoanType: TypeEducation, Amount: 30_000_000, TermMonths: 12,
	})
	assert.NoError(t, err)

	f.expectTx()
	_, err = f.svc.Cancel(ctx, applicant, resp.Loan.ID, "berubah pikiran")
	assert.NoError(t, err)

	entries, err := f.svc.History(ctx, applicant, resp.Loan.ID, false)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "APPLY", entries[0].Action)
	assert.Equal(t, "CANCEL", entries[1].Action)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
