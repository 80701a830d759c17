package approval

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	approvalerrors "go-pfund/internal/approval/errors"
	workflowerrors "go-pfund/internal/workflow/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StepInput struct {
	ApproverID uuid.UUID
	Sequence   int
}

// ChainResult reports the chain after a decision was recorded. Approved is
// only meaningful when Resolved is true.
type ChainResult struct {
	Steps    []ApprovalStep
	Resolved bool
	Approved bool
}

// Manager owns step sequencing and current-approver derivation. It performs
// no status changes itself, the request services drive it inside their own
// transaction via WithTx.
type Manager interface {
	WithTx(tx *sql.Tx) Manager
	CreateChain(ctx context.Context, requestID uuid.UUID, domain string, inputs []StepInput) ([]ApprovalStep, error)
	RecordDecision(ctx context.Context, requestID, approverID uuid.UUID, decision, comments string) (ChainResult, error)
	RemoveApprover(ctx context.Context, requestID, approverID uuid.UUID) ([]ApprovalStep, error)
	CurrentApprover(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error)
	Chain(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error)
}

type manager struct {
	repo   Repository
	logger *zap.Logger
}

func NewManager(repo Repository, logger ...*zap.Logger) Manager {
	l := zap.L().Named("approval.manager")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.manager")
	}
	return &manager{repo: repo, logger: l}
}

func (m *manager) WithTx(tx *sql.Tx) Manager {
	return &manager{repo: m.repo.WithTx(tx), logger: m.logger}
}

func (m *manager) CreateChain(ctx context.Context, requestID uuid.UUID, domain string, inputs []StepInput) ([]ApprovalStep, error) {
	if len(inputs) == 0 {
		return nil, approvalerrors.ErrEmptyChain
	}

	seen := make(map[uuid.UUID]struct{}, len(inputs))
	seq := make(map[int]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.ApproverID]; dup {
			return nil, approvalerrors.ErrDuplicateApprover
		}
		seen[in.ApproverID] = struct{}{}
		if _, dup := seq[in.Sequence]; dup {
			return nil, approvalerrors.ErrDuplicateSequence
		}
		seq[in.Sequence] = struct{}{}
	}

	existing, err := m.repo.FindByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, approvalerrors.ErrChainAlreadyExists
	}

	sorted := make([]StepInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	// sequence gaps are normalized to a contiguous 1..N range
	steps := make([]ApprovalStep, len(sorted))
	for i, in := range sorted {
		steps[i] = ApprovalStep{
			ID:            uuid.New(),
			RequestID:     requestID,
			Domain:        domain,
			ApproverID:    in.ApproverID,
			SequenceOrder: i + 1,
			Decision:      DecisionPending,
			IsCurrent:     i == 0,
		}
	}

	if err := m.repo.CreateSteps(ctx, steps); err != nil {
		m.logger.Error("create chain persist failed",
			zap.String("request_id", requestID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	m.logger.Info("approval chain created",
		zap.String("request_id", requestID.String()),
		zap.Int("steps", len(steps)),
	)
	return steps, nil
}

func (m *manager) RecordDecision(ctx context.Context, requestID, approverID uuid.UUID, decision, comments string) (ChainResult, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return ChainResult{}, approvalerrors.ErrStepNotFound
	}
	if decision == DecisionRejected && strings.TrimSpace(comments) == "" {
		return ChainResult{}, workflowerrors.ErrReasonRequired
	}

	steps, err := m.repo.FindByRequest(ctx, requestID)
	if err != nil {
		return ChainResult{}, err
	}
	if len(steps) == 0 {
		return ChainResult{}, approvalerrors.ErrChainNotFound
	}

	cur := currentIndex(steps)
	if cur < 0 {
		return ChainResult{}, approvalerrors.ErrChainAlreadyResolved
	}
	if steps[cur].ApproverID != approverID {
		return ChainResult{}, approvalerrors.ErrNotCurrentApprover
	}

	now := time.Now().UTC()
	steps[cur].Decision = decision
	steps[cur].IsCurrent = false
	steps[cur].ReviewedAt = &now
	if strings.TrimSpace(comments) != "" {
		c := comments
		steps[cur].Comments = &c
	}

	result := ChainResult{Steps: steps}
	if decision == DecisionRejected {
		// Short-circuit: one rejection closes the chain, later approvers are
		// never consulted.
		result.Resolved = true
		result.Approved = false
	} else if cur+1 < len(steps) {
		steps[cur+1].IsCurrent = true
	} else {
		result.Resolved = true
		result.Approved = true
	}

	if err := m.repo.SaveAll(ctx, steps); err != nil {
		m.logger.Error("record decision persist failed",
			zap.String("request_id", requestID.String()),
			zap.Error(err),
		)
		return ChainResult{}, err
	}

	m.logger.Info("approval decision recorded",
		zap.String("request_id", requestID.String()),
		zap.String("approver_id", approverID.String()),
		zap.String("decision", decision),
		zap.Bool("resolved", result.Resolved),
	)
	return result, nil
}

// RemoveApprover drops a still-pending step and renumbers the remaining
// steps to a contiguous 1..N range in the same transaction.
func (m *manager) RemoveApprover(ctx context.Context, requestID, approverID uuid.UUID) ([]ApprovalStep, error) {
	steps, err := m.repo.FindByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, approvalerrors.ErrChainNotFound
	}
	if currentIndex(steps) < 0 {
		return nil, approvalerrors.ErrChainAlreadyResolved
	}

	removed := -1
	for i, s := range steps {
		if s.ApproverID == approverID {
			if s.Decision != DecisionPending {
				return nil, approvalerrors.ErrChainLocked
			}
			removed = i
			break
		}
	}
	if removed == -1 {
		return nil, approvalerrors.ErrStepNotFound
	}

	pending := 0
	for _, s := range steps {
		if s.Decision == DecisionPending {
			pending++
		}
	}
	if pending == 1 {
		// removing the last undecided step would strand the chain with no
		// one left to resolve it
		return nil, approvalerrors.ErrEmptyChain
	}

	wasCurrent := steps[removed].IsCurrent
	if err := m.repo.DeleteStep(ctx, requestID, approverID); err != nil {
		return nil, err
	}

	steps = append(steps[:removed], steps[removed+1:]...)
	for i := range steps {
		steps[i].SequenceOrder = i + 1
	}
	if wasCurrent {
		for i := range steps {
			if steps[i].Decision == DecisionPending {
				steps[i].IsCurrent = true
				break
			}
		}
	}

	if err := m.repo.SaveAll(ctx, steps); err != nil {
		return nil, err
	}

	m.logger.Info("approver removed from chain",
		zap.String("request_id", requestID.String()),
		zap.String("approver_id", approverID.String()),
	)
	return steps, nil
}

func (m *manager) CurrentApprover(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error) {
	steps, err := m.repo.FindByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if i := currentIndex(steps); i >= 0 {
		id := steps[i].ApproverID
		return &id, nil
	}
	return nil, nil
}

func (m *manager) Chain(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error) {
	return m.repo.FindByRequest(ctx, requestID)
}

func currentIndex(steps []ApprovalStep) int {
	for i, s := range steps {
		if s.IsCurrent {
			return i
		}
	}
	return -1
}
