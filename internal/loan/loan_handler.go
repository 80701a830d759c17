package loan

import (
	"net/http"

	"go-pfund/internal/shared/apperror"
	"go-pfund/internal/shared/response"
	"go-pfund/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("loan.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFromContext(c *gin.Context) (workflow.Actor, bool) {
	employeeID, err := uuid.Parse(c.GetString("employee_id"))
	if err != nil {
		return workflow.Actor{}, false
	}
	return workflow.Actor{
		EmployeeID: employeeID,
		Role:       c.GetString("role"),
		HRRole:     c.GetString("hr_role"),
	}, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("loan request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) withActor(c *gin.Context) (workflow.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sesi tidak valid", nil)
	}
	return actor, ok
}

func (h *Handler) Apply(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http apply loan validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update loan validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.UpdateDraft(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// reasonAction covers the transitions whose body is an optional or
// required reason. Required-ness is enforced by the service, not binding
// tags, so an empty body still reaches the state machine check.
func (h *Handler) reasonAction(c *gin.Context, call func(ctx *gin.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error)) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	resp, err := call(c, actor, c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkIncomplete(c *gin.Context) {
	h.reasonAction(c, func(c *gin.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error) {
		return h.service.MarkIncomplete(c.Request.Context(), actor, id, reason)
	})
}

func (h *Handler) MarkReady(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	resp, err := h.service.MarkReady(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MoveToReview(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	resp, err := h.service.MoveToReview(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AssignApprovers(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req AssignApproversRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http assign approvers validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.AssignApprovers(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RemoveApprover(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	resp, err := h.service.RemoveApprover(c.Request.Context(), actor, c.Param("id"), c.Param("approverId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), actor, c.Param("id"), req.Comments)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	resp, err := h.service.Reject(c.Request.Context(), actor, c.Param("id"), req.Comments)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Release(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	var req ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http release loan validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Release(c.Request.Context(), actor, c.Param("id"), req.BankReference)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.reasonAction(c, func(c *gin.Context, actor workflow.Actor, id, reason string) (LoanDetailResponse, error) {
		return h.service.Cancel(c.Request.Context(), actor, id, reason)
	})
}

func (h *Handler) History(c *gin.Context) {
	actor, ok := h.withActor(c)
	if !ok {
		return
	}

	newestFirst := c.DefaultQuery("order", "desc") != "asc"
	resp, err := h.service.History(c.Request.Context(), actor, c.Param("id"), newestFirst)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
