package loan

import (
	"time"

	"go-pfund/internal/approval"
	"go-pfund/internal/history"
	"go-pfund/internal/workflow"
)

type CreateLoanRequest struct {
	LoanType   string  `json:"loan_type" binding:"required,oneof=HOUSING EDUCATION MEDICAL PERSONAL"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	TermMonths int     `json:"term_months" binding:"required"`
	Purpose    string  `json:"purpose"`
}

type UpdateLoanRequest struct {
	LoanType   string  `json:"loan_type" binding:"required,oneof=HOUSING EDUCATION MEDICAL PERSONAL"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	TermMonths int     `json:"term_months" binding:"required"`
	Purpose    string  `json:"purpose"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

type AssignApproversRequest struct {
	Approvers []ApproverInput `json:"approvers" binding:"required,dive"`
}

type ApproverInput struct {
	ApproverID string `json:"approver_id" binding:"required,uuid"`
	Sequence   int    `json:"sequence" binding:"required,min=1"`
}

type ReleaseRequest struct {
	BankReference string `json:"bank_reference" binding:"required"`
}

type LoanResponse struct {
	ID          string  `json:"id"`
	ApplicantID string  `json:"applicant_id"`
	LoanType    string  `json:"loan_type"`
	Amount      float64 `json:"amount"`
	TermMonths  int     `json:"term_months"`
	Purpose     string  `json:"purpose"`
	Status      string  `json:"status"`

	OfficerID   *string `json:"officer_id,omitempty"`
	AssistantID *string `json:"assistant_id,omitempty"`

	BankReference   *string `json:"bank_reference,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt   string  `json:"created_at"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	ReleasedAt  *string `json:"released_at,omitempty"`
	RejectedAt  *string `json:"rejected_at,omitempty"`
	CancelledAt *string `json:"cancelled_at,omitempty"`
}

type ApprovalStepResponse struct {
	ApproverID    string  `json:"approver_id"`
	SequenceOrder int     `json:"sequence_order"`
	Decision      string  `json:"decision"`
	IsCurrent     bool    `json:"is_current"`
	Comments      *string `json:"comments,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
}

type HistoryEntryResponse struct {
	Action      string  `json:"action"`
	PerformedBy string  `json:"performed_by"`
	Comments    *string `json:"comments,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// LoanDetailResponse is the full payload the UI renders: request, chain and
// the caller's freshly computed access flags, all from one snapshot.
type LoanDetailResponse struct {
	Loan   LoanResponse           `json:"loan"`
	Chain  []ApprovalStepResponse `json:"chain,omitempty"`
	Access workflow.AccessFlags   `json:"access"`
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:              l.ID.String(),
		ApplicantID:     l.ApplicantID.String(),
		LoanType:        l.LoanType,
		Amount:          l.Amount,
		TermMonths:      l.TermMonths,
		Purpose:         l.Purpose,
		Status:          l.Status,
		BankReference:   l.BankReference,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		ReviewedAt:      fmtTime(l.ReviewedAt),
		ApprovedAt:      fmtTime(l.ApprovedAt),
		ReleasedAt:      fmtTime(l.ReleasedAt),
		RejectedAt:      fmtTime(l.RejectedAt),
		CancelledAt:     fmtTime(l.CancelledAt),
	}
	if l.OfficerID != nil {
		v := l.OfficerID.String()
		resp.OfficerID = &v
	}
	if l.AssistantID != nil {
		v := l.AssistantID.String()
		resp.AssistantID = &v
	}
	return resp
}

func mapChain(steps []approval.ApprovalStep) []ApprovalStepResponse {
	resp := make([]ApprovalStepResponse, len(steps))
	for i, s := range steps {
		resp[i] = ApprovalStepResponse{
			ApproverID:    s.ApproverID.String(),
			SequenceOrder: s.SequenceOrder,
			Decision:      s.Decision,
			IsCurrent:     s.IsCurrent,
			Comments:      s.Comments,
			ReviewedAt:    fmtTime(s.ReviewedAt),
		}
	}
	return resp
}

func mapHistory(entries []history.HistoryEntry) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = HistoryEntryResponse{
			Action:      e.Action,
			PerformedBy: e.PerformedBy.String(),
			Comments:    e.Comments,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
