package loan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-pfund/internal/approval"
	documenterrors "go-pfund/internal/document/errors"
	"go-pfund/internal/events"
	"go-pfund/internal/history"
	loanerrors "go-pfund/internal/loan/errors"
	membererrors "go-pfund/internal/member/errors"
	"go-pfund/internal/messaging/kafka"
	"go-pfund/internal/shared/apperror"
	"go-pfund/internal/shared/contextutil"
	"go-pfund/internal/workflow"
	workflowerrors "go-pfund/internal/workflow/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor workflow.Actor, req CreateLoanRequest) (LoanDetailResponse, error)
	GetAll(ctx context.Context, actor workflow.Actor) ([]LoanResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error)
	UpdateDraft(ctx context.Context, actor workflow.Actor, id string, req UpdateLoanRequest) (LoanDetailResponse, error)

	MarkIncomplete(ctx context.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error)
	MarkReady(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error)
	MoveToReview(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error)
	AssignApprovers(ctx context.Context, actor workflow.Actor, id string, req AssignApproversRequest) (LoanDetailResponse, error)
	RemoveApprover(ctx context.Context, actor workflow.Actor, id, approverID string) (LoanDetailResponse, error)
	Approve(ctx context.Context, actor workflow.Actor, id, comments string) (LoanDetailResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id, comments string) (LoanDetailResponse, error)
	Release(ctx context.Context, actor workflow.Actor, id, bankReference string) (LoanDetailResponse, error)
	Cancel(ctx context.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error)

	History(ctx context.Context, actor workflow.Actor, id string, newestFirst bool) ([]HistoryEntryResponse, error)
}

// BalanceChecker matches member.Service, declared locally so the loan
// module does not depend on the member package's full surface.
type BalanceChecker interface {
	HasVestedBalance(ctx context.Context, employeeID uuid.UUID, amount float64) (bool, error)
}

// Checker matches document.Checker.
type Checker interface {
	IsComplete(ctx context.Context, domain string, requestID uuid.UUID) (bool, []string, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	chain    approval.Manager
	hist     history.Repository
	docs     Checker
	balances BalanceChecker
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	chain approval.Manager,
	hist history.Repository,
	docs Checker,
	balances BalanceChecker,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		chain:    chain,
		hist:     hist,
		docs:     docs,
		balances: balances,
		outbox:   outbox,
		logger:   l,
	}
}

type txRepos struct {
	loans  Repository
	chain  approval.Manager
	hist   history.Repository
	outbox kafka.OutboxRepository
}

func (s *service) withTx(tx *sql.Tx) txRepos {
	r := txRepos{
		loans: s.repo.WithTx(tx),
		chain: s.chain.WithTx(tx),
		hist:  s.hist.WithTx(tx),
	}
	if s.outbox != nil {
		r.outbox = s.outbox.WithTx(tx)
	}
	return r
}

func (s *service) loadLoan(ctx context.Context, loans Repository, id string) (*Loan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, loanerrors.ErrInvalidLoanID
	}
	l, err := loans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanerrors.ErrLoanNotFound
		}
		return nil, err
	}
	return l, nil
}

// access resolves the caller's flags against the snapshot loaded in this
// transaction, status and chain together, so flags can never tear.
func (s *service) access(ctx context.Context, chain approval.Manager, l *Loan, actor workflow.Actor) (workflow.AccessFlags, error) {
	var current *uuid.UUID
	if l.Status == string(workflow.StatusAwaitingApprovals) {
		var err error
		current, err = chain.CurrentApprover(ctx, l.ID)
		if err != nil {
			return workflow.AccessFlags{}, err
		}
	}
	return workflow.ResolveAccess(
		workflow.DomainLoan,
		workflow.Status(l.Status),
		l.ApplicantID,
		current,
		actor,
	), nil
}

func (s *service) appendHistory(ctx context.Context, hist history.Repository, l *Loan, action string, actor workflow.Actor, comments string) error {
	e := history.HistoryEntry{
		ID:          uuid.New(),
		RequestID:   l.ID,
		Domain:      string(workflow.DomainLoan),
		Action:      action,
		PerformedBy: actor.EmployeeID,
	}
	if strings.TrimSpace(comments) != "" {
		c := comments
		e.Comments = &c
	}
	return hist.Append(ctx, &e)
}

func (s *service) enqueueEvent(ctx context.Context, outbox kafka.OutboxRepository, l *Loan, action workflow.Action, from, to workflow.Status, actor workflow.Actor) error {
	if outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.WorkflowTransitionedEvent{
		EventType:   "loan." + strings.ToLower(string(action)),
		Domain:      string(workflow.DomainLoan),
		RequestID:   l.ID.String(),
		ApplicantID: l.ApplicantID.String(),
		Action:      string(action),
		FromStatus:  string(from),
		ToStatus:    string(to),
		ActorID:     actor.EmployeeID.String(),
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		TraceID:       contextutil.GetRequestID(ctx),
		AggregateType: "loan",
		AggregateID:   l.ID.String(),
		EventType:     "loan." + strings.ToLower(string(action)),
		Topic:         events.LoanWorkflowTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) detail(ctx context.Context, chain approval.Manager, l *Loan, actor workflow.Actor) (LoanDetailResponse, error) {
	steps, err := chain.Chain(ctx, l.ID)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	access, err := s.access(ctx, chain, l, actor)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	return LoanDetailResponse{
		Loan:   mapToResponse(*l),
		Chain:  mapChain(steps),
		Access: access,
	}, nil
}

func validateTerms(amount float64, termMonths int) error {
	if amount <= 0 {
		return loanerrors.ErrInvalidAmount
	}
	if termMonths < 6 || termMonths > 240 {
		return loanerrors.ErrInvalidTerm
	}
	return nil
}

func (s *service) Apply(ctx context.Context, actor workflow.Actor, req CreateLoanRequest) (LoanDetailResponse, error) {
	s.logger.Debug("apply loan requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("applicant_id", actor.EmployeeID.String()),
		zap.Float64("amount", req.Amount),
	)

	if err := validateTerms(req.Amount, req.TermMonths); err != nil {
		return LoanDetailResponse{}, err
	}

	ok, err := s.balances.HasVestedBalance(ctx, actor.EmployeeID, req.Amount)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !ok {
		return LoanDetailResponse{}, membererrors.ErrInsufficientVestedBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply loan begin tx failed", zap.Error(err))
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)

	l := &Loan{
		ID:          uuid.New(),
		ApplicantID: actor.EmployeeID,
		LoanType:    req.LoanType,
		Amount:      req.Amount,
		TermMonths:  req.TermMonths,
		Purpose:     req.Purpose,
		Status:      string(workflow.StatusPending),
	}
	if err := qtx.loans.Create(ctx, l); err != nil {
		s.logger.Error("apply loan persist failed", zap.Error(err))
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, "APPLY", actor, req.Purpose); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.enqueueEvent(ctx, qtx.outbox, l, "APPLY", "", workflow.StatusPending, actor); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply loan commit failed", zap.Error(err))
		return LoanDetailResponse{}, err
	}

	s.logger.Info("loan application created",
		zap.String("loan_id", l.ID.String()),
		zap.String("applicant_id", actor.EmployeeID.String()),
	)
	return s.detail(ctx, s.chain, l, actor)
}

func (s *service) GetAll(ctx context.Context, actor workflow.Actor) ([]LoanResponse, error) {
	var (
		loans []Loan
		err   error
	)
	if actor.Role == workflow.RoleMember {
		loans, err = s.repo.FindAllByApplicant(ctx, actor.EmployeeID.String())
	} else {
		loans, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error) {
	// single tx so status, chain and flags come from one snapshot
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if actor.Role == workflow.RoleMember && l.ApplicantID != actor.EmployeeID {
		return LoanDetailResponse{}, apperror.ErrForbidden
	}
	return s.detail(ctx, qtx.chain, l, actor)
}

func (s *service) UpdateDraft(ctx context.Context, actor workflow.Actor, id string, req UpdateLoanRequest) (LoanDetailResponse, error) {
	if err := validateTerms(req.Amount, req.TermMonths); err != nil {
		return LoanDetailResponse{}, err
	}

	ok, err := s.balances.HasVestedBalance(ctx, actor.EmployeeID, req.Amount)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !ok {
		return LoanDetailResponse{}, membererrors.ErrInsufficientVestedBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	access, err := s.access(ctx, qtx.chain, l, actor)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !access.CanEdit {
		return LoanDetailResponse{}, loanerrors.ErrNotEditable
	}

	l.LoanType = req.LoanType
	l.Amount = req.Amount
	l.TermMonths = req.TermMonths
	l.Purpose = req.Purpose

	if err := qtx.loans.Update(ctx, l); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, "UPDATE_DETAILS", actor, ""); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanDetailResponse{}, err
	}
	return s.detail(ctx, s.chain, l, actor)
}

// transition is the shared path for the plain status moves. Chain-stepping
// actions (Approve/Reject) and chain edits have their own flows below.
func (s *service) transition(
	ctx context.Context,
	actor workflow.Actor,
	id string,
	action workflow.Action,
	reason string,
	permitted func(workflow.AccessFlags) bool,
	apply func(l *Loan, now time.Time),
) (LoanDetailResponse, error) {
	s.logger.Debug("loan transition requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("loan_id", id),
		zap.String("action", string(action)),
		zap.String("actor_id", actor.EmployeeID.String()),
	)

	if err := workflow.ValidateReason(action, reason); err != nil {
		return LoanDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("loan transition begin tx failed", zap.Error(err))
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	from := workflow.Status(l.Status)
	to, err := workflow.Next(workflow.DomainLoan, from, action)
	if err != nil {
		s.logger.Warn("loan transition invalid",
			zap.String("loan_id", id),
			zap.String("from_status", l.Status),
			zap.String("action", string(action)),
		)
		return LoanDetailResponse{}, err
	}

	access, err := s.access(ctx, qtx.chain, l, actor)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !permitted(access) {
		return LoanDetailResponse{}, workflowerrors.ErrNotAuthorized
	}

	now := time.Now().UTC()
	l.Status = string(to)
	if apply != nil {
		apply(l, now)
	}

	if err := qtx.loans.Update(ctx, l); err != nil {
		s.logger.Error("loan transition persist failed",
			zap.String("loan_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, string(action), actor, reason); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.enqueueEvent(ctx, qtx.outbox, l, action, from, to, actor); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("loan transition commit failed",
			zap.String("loan_id", id),
			zap.Error(err),
		)
		return LoanDetailResponse{}, err
	}

	s.logger.Info("loan transition applied",
		zap.String("loan_id", id),
		zap.String("action", string(action)),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(to)),
	)
	return s.detail(ctx, s.chain, l, actor)
}

func (s *service) MarkIncomplete(ctx context.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionMarkIncomplete, reason,
		func(f workflow.AccessFlags) bool { return f.CanMarkIncomplete },
		nil,
	)
}

func (s *service) MarkReady(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionMarkReady, "",
		func(f workflow.AccessFlags) bool { return f.CanMarkReady },
		func(l *Loan, _ time.Time) {
			if actor.Role == workflow.RoleAssistant && l.AssistantID == nil {
				id := actor.EmployeeID
				l.AssistantID = &id
			}
		},
	)
}

func (s *service) MoveToReview(ctx context.Context, actor workflow.Actor, id string) (LoanDetailResponse, error) {
	loanID, err := uuid.Parse(id)
	if err != nil {
		return LoanDetailResponse{}, loanerrors.ErrInvalidLoanID
	}

	complete, missing, err := s.docs.IsComplete(ctx, string(workflow.DomainLoan), loanID)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !complete {
		s.logger.Warn("loan move to review blocked by missing documents",
			zap.String("loan_id", id),
			zap.Strings("missing", missing),
		)
		return LoanDetailResponse{}, documenterrors.ErrDocumentsIncomplete
	}

	return s.transition(ctx, actor, id, workflow.ActionMoveToReview, "",
		func(f workflow.AccessFlags) bool { return f.CanMoveToReview },
		func(l *Loan, now time.Time) {
			if l.ReviewedAt == nil {
				l.ReviewedAt = &now
			}
			if l.OfficerID == nil {
				id := actor.EmployeeID
				l.OfficerID = &id
			}
		},
	)
}

func (s *service) AssignApprovers(ctx context.Context, actor workflow.Actor, id string, req AssignApproversRequest) (LoanDetailResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	access, err := s.access(ctx, qtx.chain, l, actor)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !access.CanAssignApprovers {
		return LoanDetailResponse{}, workflowerrors.ErrNotAuthorized
	}

	inputs := make([]approval.StepInput, len(req.Approvers))
	for i, a := range req.Approvers {
		approverID, err := uuid.Parse(a.ApproverID)
		if err != nil {
			return LoanDetailResponse{}, apperror.InvalidField("Approver Id")
		}
		inputs[i] = approval.StepInput{ApproverID: approverID, Sequence: a.Sequence}
	}

	if _, err := qtx.chain.CreateChain(ctx, l.ID, string(workflow.DomainLoan), inputs); err != nil {
		return LoanDetailResponse{}, err
	}

	// version bump serializes chain edits against concurrent transitions
	if err := qtx.loans.Update(ctx, l); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, "ASSIGN_APPROVERS", actor, ""); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanDetailResponse{}, err
	}

	s.logger.Info("loan approvers assigned",
		zap.String("loan_id", id),
		zap.Int("steps", len(inputs)),
	)
	return s.detail(ctx, s.chain, l, actor)
}

func (s *service) RemoveApprover(ctx context.Context, actor workflow.Actor, id, approverID string) (LoanDetailResponse, error) {
	targetID, err := uuid.Parse(approverID)
	if err != nil {
		return LoanDetailResponse{}, apperror.InvalidField("Approver Id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	access, err := s.access(ctx, qtx.chain, l, actor)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	if !access.CanAssignApprovers {
		return LoanDetailResponse{}, workflowerrors.ErrNotAuthorized
	}

	if _, err := qtx.chain.RemoveApprover(ctx, l.ID, targetID); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := qtx.loans.Update(ctx, l); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, "REMOVE_APPROVER", actor, ""); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanDetailResponse{}, err
	}
	return s.detail(ctx, s.chain, l, actor)
}

func (s *service) Approve(ctx context.Context, actor workflow.Actor, id, comments string) (LoanDetailResponse, error) {
	return s.recordDecision(ctx, actor, id, approval.DecisionApproved, comments)
}

func (s *service) Reject(ctx context.Context, actor workflow.Actor, id, comments string) (LoanDetailResponse, error) {
	return s.recordDecision(ctx, actor, id, approval.DecisionRejected, comments)
}

// recordDecision applies a chain step decision. The loan row takes a
// version bump on every decision, even mid-chain ones that leave the status
// alone, so racing decisions on the same request serialize: exactly one
// commits, the loser sees a concurrency conflict.
func (s *service) recordDecision(ctx context.Context, actor workflow.Actor, id, decision, comments string) (LoanDetailResponse, error) {
	action := workflow.ActionApprove
	if decision == approval.DecisionRejected {
		action = workflow.ActionReject
	}

	if err := workflow.ValidateReason(action, comments); err != nil {
		return LoanDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	l, err := s.loadLoan(ctx, qtx.loans, id)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	from := workflow.Status(l.Status)
	if !workflow.CanTransition(workflow.DomainLoan, from, action) {
		return LoanDetailResponse{}, workflowerrors.ErrInvalidStateTransition
	}

	result, err := qtx.chain.RecordDecision(ctx, l.ID, actor.EmployeeID, decision, comments)
	if err != nil {
		return LoanDetailResponse{}, err
	}

	now := time.Now().UTC()
	to := from
	if result.Resolved {
		if result.Approved {
			to = workflow.StatusApproved
			l.Status = string(to)
			if l.ApprovedAt == nil {
				l.ApprovedAt = &now
			}
		} else {
			to = workflow.StatusRejected
			l.Status = string(to)
			if l.RejectedAt == nil {
				l.RejectedAt = &now
			}
			c := comments
			l.RejectionReason = &c
		}
	}

	if err := qtx.loans.Update(ctx, l); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, l, string(action), actor, comments); err != nil {
		return LoanDetailResponse{}, err
	}
	if err := s.enqueueEvent(ctx, qtx.outbox, l, action, from, to, actor); err != nil {
		return LoanDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanDetailResponse{}, err
	}

	s.logger.Info("loan chain decision applied",
		zap.String("loan_id", id),
		zap.String("decision", decision),
		zap.Bool("resolved", result.Resolved),
		zap.String("status", l.Status),
	)
	return s.detail(ctx, s.chain, l, actor)
}

func (s *service) Release(ctx context.Context, actor workflow.Actor, id, bankReference string) (LoanDetailResponse, error) {
	if strings.TrimSpace(bankReference) == "" {
		return LoanDetailResponse{}, loanerrors.ErrBankReferenceRequired
	}

	return s.transition(ctx, actor, id, workflow.ActionRelease, "",
		func(f workflow.AccessFlags) bool { return f.CanRelease },
		func(l *Loan, now time.Time) {
			if l.ReleasedAt == nil {
				l.ReleasedAt = &now
			}
			ref := bankReference
			l.BankReference = &ref
		},
	)
}

func (s *service) Cancel(ctx context.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionCancel, reason,
		func(f workflow.AccessFlags) bool { return f.CanCancel },
		func(l *Loan, now time.Time) {
			if l.CancelledAt == nil {
				l.CancelledAt = &now
			}
		},
	)
}

func (s *service) History(ctx context.Context, actor workflow.Actor, id string, newestFirst bool) ([]HistoryEntryResponse, error) {
	l, err := s.loadLoan(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == workflow.RoleMember && l.ApplicantID != actor.EmployeeID {
		return nil, apperror.ErrForbidden
	}

	entries, err := s.hist.FindByRequest(ctx, l.ID, string(workflow.DomainLoan), newestFirst)
	if err != nil {
		return nil, err
	}
	return mapHistory(entries), nil
}
