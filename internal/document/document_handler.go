package document

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
	l := zap.L().Named("document.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("document request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parseTarget(c *gin.Context) (string, uuid.UUID, bool) {
	domain := c.Param("domain")
	if domain != string(workflow.DomainLoan) && domain != string(workflow.DomainWithdrawal) {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "unknown request domain", nil)
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request id", nil)
		return "", uuid.Nil, false
	}
	return domain, id, true
}

func (h *Handler) Attach(c *gin.Context) {
	domain, requestID, ok := parseTarget(c)
	if !ok {
		return
	}

	uploadedBy, err := uuid.Parse(c.GetString("employee_id"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
		return
	}

	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Input tidak valid", err.Error())
		return
	}

	doc, err := h.service.Attach(c.Request.Context(), domain, requestID, uploadedBy, req.DocType, req.FileName)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, mapToResponse(doc), nil)
}

func (h *Handler) List(c *gin.Context) {
	domain, requestID, ok := parseTarget(c)
	if !ok {
		return
	}

	docs, err := h.service.List(c.Request.Context(), domain, requestID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = mapToResponse(d)
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Completeness(c *gin.Context) {
	domain, requestID, ok := parseTarget(c)
	if !ok {
		return
	}

	complete, missing, err := h.service.IsComplete(c.Request.Context(), domain, requestID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, CompletenessResponse{Complete: complete, Missing: missing}, nil)
}
