package withdrawal

import (
	"time"

	"go-pfund/internal/history"
	"go-pfund/internal/workflow"
)

type CreateWithdrawalRequest struct {
	WithdrawalType string  `json:"withdrawal_type" binding:"required,oneof=PARTIAL FULL HARDSHIP RETIREMENT"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Purpose        string  `json:"purpose"`
}

type UpdateWithdrawalRequest struct {
	WithdrawalType string  `json:"withdrawal_type" binding:"required,oneof=PARTIAL FULL HARDSHIP RETIREMENT"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Purpose        string  `json:"purpose"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

type ProcessRequest struct {
	BankReference string `json:"bank_reference" binding:"required"`
}

type WithdrawalResponse struct {
	ID             string  `json:"id"`
	ApplicantID    string  `json:"applicant_id"`
	WithdrawalType string  `json:"withdrawal_type"`
	Amount         float64 `json:"amount"`
	Purpose        string  `json:"purpose"`
	Status         string  `json:"status"`

	OfficerID   *string `json:"officer_id,omitempty"`
	AssistantID *string `json:"assistant_id,omitempty"`

	BankReference   *string `json:"bank_reference,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CreatedAt   string  `json:"created_at"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	RejectedAt  *string `json:"rejected_at,omitempty"`
	CancelledAt *string `json:"cancelled_at,omitempty"`
}

type HistoryEntryResponse struct {
	Action      string  `json:"action"`
	PerformedBy string  `json:"performed_by"`
	Comments    *string `json:"comments,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// WithdrawalDetailResponse carries the request plus the caller's freshly
// computed access flags. Withdrawals have no approval chain.
type WithdrawalDetailResponse struct {
	Withdrawal WithdrawalResponse   `json:"withdrawal"`
	Access     workflow.AccessFlags `json:"access"`
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(w Withdrawal) WithdrawalResponse {
	resp := WithdrawalResponse{
		ID:              w.ID.String(),
		ApplicantID:     w.ApplicantID.String(),
		WithdrawalType:  w.WithdrawalType,
		Amount:          w.Amount,
		Purpose:         w.Purpose,
		Status:          w.Status,
		BankReference:   w.BankReference,
		RejectionReason: w.RejectionReason,
		CreatedAt:       w.CreatedAt.Format(time.RFC3339),
		ReviewedAt:      fmtTime(w.ReviewedAt),
		ApprovedAt:      fmtTime(w.ApprovedAt),
		ProcessedAt:     fmtTime(w.ProcessedAt),
		RejectedAt:      fmtTime(w.RejectedAt),
		CancelledAt:     fmtTime(w.CancelledAt),
	}
	if w.OfficerID != nil {
		v := w.OfficerID.String()
		resp.OfficerID = &v
	}
	if w.AssistantID != nil {
		v := w.AssistantID.String()
		resp.AssistantID = &v
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
