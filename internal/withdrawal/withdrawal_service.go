package withdrawal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	documenterrors "go-pfund/internal/document/errors"
	"go-pfund/internal/events"
	"go-pfund/internal/history"
	"go-pfund/internal/member"
	membererrors "go-pfund/internal/member/errors"
	"go-pfund/internal/messaging/kafka"
	"go-pfund/internal/shared/apperror"
	"go-pfund/internal/shared/contextutil"
	withdrawalerrors "go-pfund/internal/withdrawal/errors"
	"go-pfund/internal/workflow"
	workflowerrors "go-pfund/internal/workflow/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=withdrawal_service.go -destination=mock/withdrawal_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor workflow.Actor, req CreateWithdrawalRequest) (WithdrawalDetailResponse, error)
	GetAll(ctx context.Context, actor workflow.Actor) ([]WithdrawalResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (WithdrawalDetailResponse, error)
	UpdateDraft(ctx context.Context, actor workflow.Actor, id string, req UpdateWithdrawalRequest) (WithdrawalDetailResponse, error)

	MarkIncomplete(ctx context.Context, actor workflow.Actor, id, reason string) (WithdrawalDetailResponse, error)
	MarkReady(ctx context.Context, actor workflow.Actor, id string) (WithdrawalDetailResponse, error)
	Approve(ctx context.Context, actor workflow.Actor, id, comments string) (WithdrawalDetailResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id, comments string) (WithdrawalDetailResponse, error)
	Process(ctx context.Context, actor workflow.Actor, id, bankReference string) (WithdrawalDetailResponse, error)
	Cancel(ctx context.Context, actor workflow.Actor, id, reason string) (WithdrawalDetailResponse, error)

	History(ctx context.Context, actor workflow.Actor, id string, newestFirst bool) ([]HistoryEntryResponse, error)
}

// Checker matches document.Checker.
type Checker interface {
	IsComplete(ctx context.Context, domain string, requestID uuid.UUID) (bool, []string, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	hist     history.Repository
	docs     Checker
	accounts member.Repository
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	hist history.Repository,
	docs Checker,
	accounts member.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("withdrawal.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("withdrawal.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		hist:     hist,
		docs:     docs,
		accounts: accounts,
		outbox:   outbox,
		logger:   l,
	}
}

type txRepos struct {
	withdrawals Repository
	hist        history.Repository
	accounts    member.Repository
	outbox      kafka.OutboxRepository
}

func (s *service) withTx(tx *sql.Tx) txRepos {
	r := txRepos{
		withdrawals: s.repo.WithTx(tx),
		hist:        s.hist.WithTx(tx),
		accounts:    s.accounts.WithTx(tx),
	}
	if s.outbox != nil {
		r.outbox = s.outbox.WithTx(tx)
	}
	return r
}

func (s *service) loadWithdrawal(ctx context.Context, withdrawals Repository, id string) (*Withdrawal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, withdrawalerrors.ErrInvalidWithdrawalID
	}
	w, err := withdrawals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, withdrawalerrors.ErrWithdrawalNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *service) access(w *Withdrawal, actor workflow.Actor) workflow.AccessFlags {
	// withdrawals carry no chain, there is never a current approver
	return workflow.ResolveAccess(
		workflow.DomainWithdrawal,
		workflow.Status(w.Status),
		w.ApplicantID,
		nil,
		actor,
	)
}

func (s *service) appendHistory(ctx context.Context, hist history.Repository, w *Withdrawal, action string, actor workflow.Actor, comments string) error {
	e := history.HistoryEntry{
		ID:          uuid.New(),
		RequestID:   w.ID,
		Domain:      string(workflow.DomainWithdrawal),
		Action:      action,
		PerformedBy: actor.EmployeeID,
	}
	if strings.TrimSpace(comments) != "" {
		c := comments
		e.Comments = &c
	}
	return hist.Append(ctx, &e)
}

func (s *service) enqueueEvent(ctx context.Context, outbox kafka.OutboxRepository, w *Withdrawal, action workflow.Action, from, to workflow.Status, actor workflow.Actor) error {
	if outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.WorkflowTransitionedEvent{
		EventType:   "withdrawal." + strings.ToLower(string(action)),
		Domain:      string(workflow.DomainWithdrawal),
		RequestID:   w.ID.String(),
		ApplicantID: w.ApplicantID.String(),
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
		AggregateType: "withdrawal",
		AggregateID:   w.ID.String(),
		EventType:     "withdrawal." + strings.ToLower(string(action)),
		Topic:         events.WithdrawalWorkflowTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) detail(w *Withdrawal, actor workflow.Actor) WithdrawalDetailResponse {
	return WithdrawalDetailResponse{
		Withdrawal: mapToResponse(*w),
		Access:     s.access(w, actor),
	}
}

func (s *service) Apply(ctx context.Context, actor workflow.Actor, req CreateWithdrawalRequest) (WithdrawalDetailResponse, error) {
	s.logger.Debug("apply withdrawal requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("applicant_id", actor.EmployeeID.String()),
		zap.Float64("amount", req.Amount),
	)

	if req.Amount <= 0 {
		return WithdrawalDetailResponse{}, withdrawalerrors.ErrInvalidAmount
	}

	account, err := s.accounts.FindByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WithdrawalDetailResponse{}, membererrors.ErrAccountNotFound
		}
		return WithdrawalDetailResponse{}, err
	}
	if account.VestedBalance < req.Amount {
		return WithdrawalDetailResponse{}, membererrors.ErrInsufficientVestedBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply withdrawal begin tx failed", zap.Error(err))
		return WithdrawalDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)

	w := &Withdrawal{
		ID:             uuid.New(),
		ApplicantID:    actor.EmployeeID,
		WithdrawalType: req.WithdrawalType,
		Amount:         req.Amount,
		Purpose:        req.Purpose,
		Status:         string(workflow.StatusPending),
	}
	if err := qtx.withdrawals.Create(ctx, w); err != nil {
		s.logger.Error("apply withdrawal persist failed", zap.Error(err))
		return WithdrawalDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, w, "APPLY", actor, req.Purpose); err != nil {
		return WithdrawalDetailResponse{}, err
	}
	if err := s.enqueueEvent(ctx, qtx.outbox, w, "APPLY", "", workflow.StatusPending, actor); err != nil {
		return WithdrawalDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply withdrawal commit failed", zap.Error(err))
		return WithdrawalDetailResponse{}, err
	}

	s.logger.Info("withdrawal application created",
		zap.String("withdrawal_id", w.ID.String()),
		zap.String("applicant_id", actor.EmployeeID.String()),
	)
	return s.detail(w, actor), nil
}

func (s *service) GetAll(ctx context.Context, actor workflow.Actor) ([]WithdrawalResponse, error) {
	var (
		withdrawals []Withdrawal
		err         error
	)
	if actor.Role == workflow.RoleMember {
		withdrawals, err = s.repo.FindAllByApplicant(ctx, actor.EmployeeID.String())
	} else {
		withdrawals, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		resp[i] = mapToResponse(w)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor workflow.Actor, id string) (WithdrawalDetailResponse, error) {
	w, err := s.loadWithdrawal(ctx, s.repo, id)
	if err != nil {
		return WithdrawalDetailResponse{}, err
	}
	if actor.Role == workflow.RoleMember && w.ApplicantID != actor.EmployeeID {
		return WithdrawalDetailResponse{}, apperror.ErrForbidden
	}
	return s.detail(w, actor), nil
}

func (s *service) UpdateDraft(ctx context.Context, actor workflow.Actor, id string, req UpdateWithdrawalRequest) (WithdrawalDetailResponse, error) {
	if req.Amount <= 0 {
		return WithdrawalDetailResponse{}, withdrawalerrors.ErrInvalidAmount
	}

	account, err := s.accounts.FindByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WithdrawalDetailResponse{}, membererrors.ErrAccountNotFound
		}
		return WithdrawalDetailResponse{}, err
	}
	if account.VestedBalance < req.Amount {
		return WithdrawalDetailResponse{}, membererrors.ErrInsufficientVestedBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WithdrawalDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	w, err := s.loadWithdrawal(ctx, qtx.withdrawals, id)
	if err != nil {
		return WithdrawalDetailResponse{}, err
	}

	if !s.access(w, actor).CanEdit {
		return WithdrawalDetailResponse{}, withdrawalerrors.ErrNotEditable
	}

	w.WithdrawalType = req.WithdrawalType
	w.Amount = req.Amount
	w.Purpose = req.Purpose

	if err := qtx.withdrawals.Update(ctx, w); err != nil {
		return WithdrawalDetailResponse{}, err
	}
	if err := s.appendHistory(ctx, qtx.hist, w, "UPDATE_DETAILS", actor, ""); err != nil {
		return WithdrawalDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WithdrawalDetailResponse{}, err
	}
	return s.detail(w, actor), nil
}

func (s *service) transition(
	ctx context.Context,
	actor workflow.Actor,
	id string,
	action workflow.Action,
	reason string,
	permitted func(workflow.AccessFlags) bool,
	apply func(w *Withdrawal, now time.Time),
) (WithdrawalDetailResponse, error) {
	s.logger.Debug("withdrawal transition requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("withdrawal_id", id),
		zap.String("action", string(action)),
		zap.String("actor_id", actor.EmployeeID.String()),
	)

	if err := workflow.ValidateReason(action, reason); err != nil {
		return WithdrawalDetailResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("withdrawal transition begin tx failed", zap.Error(err))
		return WithdrawalDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.withTx(tx)
	w, err := s.loadWithdrawal(ctx, qtx.withdrawals, id)
	if err != nil {
		return WithdrawalDetailResponse{}, err
	}

	from := workflow.Status(w.Status)
	to, err := workflow.Next(workflow.DomainWithdrawal, from, action)
	if err != nil {
		s.logger.Warn("withdrawal transition invalid",
			zap.String("withdrawal_id", id),
			zap.String("from_status", w.Status),
			zap.String("action", string(action)),
		)
		return WithdrawalDetailResponse{}, err
	}

	if !permitted(s.access(w, actor)) {
		return WithdrawalDetailResponse{}, workflowerrors.ErrNotAuthorized
	}

	now := time.Now().UTC()
	w.Status = string(to)
	if apply != nil {
		apply(w, now)
	}

	if err := qtx.withdrawals.Update(ctx, w); err != nil {
		s.logger.Error("withdrawal transition persist failed",
			zap.String("withdrawal_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return WithdrawalDetailResponse{}, err
	}

	// processing moves money, so the debit is part of this same tx
	if action == workflow.ActionRelease {
		if err := qtx.accounts.Debit(ctx, w.ApplicantID, w.Amount); err != nil {
			s.logger.Error("withdrawal debit failed",
				zap.String("withdrawal_id", id),
				zap.Float64("amount", w.Amount),
				zap.Error(err),
			)
			return WithdrawalDetailResponse{}, err
		}
	}

	if err := s.appendHistory(ctx, qtx.hist, w, string(action), actor, reason); err != nil {
		return WithdrawalDetailResponse{}, err
	}
	if err := s.enqueueEvent(ctx, qtx.outbox, w, action, from, to, actor); err != nil {
		return WithdrawalDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("withdrawal transition commit failed",
			zap.String("withdrawal_id", id),
			zap.Error(err),
		)
		return WithdrawalDetailResponse{}, err
	}

	s.logger.Info("withdrawal transition applied",
		zap.String("withdrawal_id", id),
		zap.String("action", string(action)),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(to)),
	)
	return s.detail(w, actor), nil
}

func (s *service) MarkIncomplete(ctx context.Context, actor workflow.Actor, id, reason string) (WithdrawalDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionMarkIncomplete, reason,
		func(f workflow.AccessFlags) bool { return f.CanMarkIncomplete },
		nil,
	)
}

// MarkReady gates on document completeness: withdrawals go straight to the
// reviewing officer, so this is the last stop before a decision.
func (s *service) MarkReady(ctx context.Context, actor workflow.Actor, id string) (WithdrawalDetailResponse, error) {
	withdrawalID, err := uuid.Parse(id)
	if err != nil {
		return WithdrawalDetailResponse{}, withdrawalerrors.ErrInvalidWithdrawalID
	}

	complete, missing, err := s.docs.IsComplete(ctx, string(workflow.DomainWithdrawal), withdrawalID)
	if err != nil {
		return WithdrawalDetailResponse{}, err
	}
	if !complete {
		s.logger.Warn("withdrawal mark ready blocked by missing documents",
			zap.String("withdrawal_id", id),
			zap.Strings("missing", missing),
		)
		return WithdrawalDetailResponse{}, documenterrors.ErrDocumentsIncomplete
	}

	return s.transition(ctx, actor, id, workflow.ActionMarkReady, "",
		func(f workflow.AccessFlags) bool { return f.CanMarkReady },
		func(w *Withdrawal, _ time.Time) {
			if actor.Role == workflow.RoleAssistant && w.AssistantID == nil {
				id := actor.EmployeeID
				w.AssistantID = &id
			}
		},
	)
}

func (s *service) Approve(ctx context.Context, actor workflow.Actor, id, comments string) (WithdrawalDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionApprove, comments,
		func(f workflow.AccessFlags) bool { return f.CanApprove },
		func(w *Withdrawal, now time.Time) {
			if w.ApprovedAt == nil {
				w.ApprovedAt = &now
			}
			if w.ReviewedAt == nil {
				w.ReviewedAt = &now
			}
			if w.OfficerID == nil {
				id := actor.EmployeeID
				w.OfficerID = &id
			}
		},
	)
}

func (s *service) Reject(ctx context.Context, actor workflow.Actor, id, comments string) (WithdrawalDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionReject, comments,
		func(f workflow.AccessFlags) bool { return f.CanReject },
		func(w *Withdrawal, now time.Time) {
			if w.RejectedAt == nil {
				w.RejectedAt = &now
			}
			if w.ReviewedAt == nil {
				w.ReviewedAt = &now
			}
			if w.OfficerID == nil {
				id := actor.EmployeeID
				w.OfficerID = &id
			}
			c := comments
			w.RejectionReason = &c
		},
	)
}

func (s *service) Process(ctx context.Context, actor workflow.Actor, id, bankReference string) (WithdrawalDetailResponse, error) {
	if strings.TrimSpace(bankReference) == "" {
		return WithdrawalDetailResponse{}, withdrawalerrors.ErrBankReferenceRequired
	}

	return s.transition(ctx, actor, id, workflow.ActionRelease, "",
		func(f workflow.AccessFlags) bool { return f.CanRelease },
		func(w *Withdrawal, now time.Time) {
			if w.ProcessedAt == nil {
				w.ProcessedAt = &now
			}
			ref := bankReference
			w.BankReference = &ref
		},
	)
}

func (s *service) Cancel(ctx context.Context, actor workflow.Actor, id, reason string) (WithdrawalDetailResponse, error) {
	return s.transition(ctx, actor, id, workflow.ActionCancel, reason,
		func(f workflow.AccessFlags) bool { return f.CanCancel },
		func(w *Withdrawal, now time.Time) {
			if w.CancelledAt == nil {
				w.CancelledAt = &now
			}
		},
	)
}

func (s *service) History(ctx context.Context, actor workflow.Actor, id string, newestFirst bool) ([]HistoryEntryResponse, error) {
	w, err := s.loadWithdrawal(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == workflow.RoleMember && w.ApplicantID != actor.EmployeeID {
		return nil, apperror.ErrForbidden
	}

	entries, err := s.hist.FindByRequest(ctx, w.ID, string(workflow.DomainWithdrawal), newestFirst)
	if err != nil {
		return nil, err
	}
	return mapHistory(entries), nil
}
