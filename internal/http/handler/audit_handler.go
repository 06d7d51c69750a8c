package handler

import (
	"net/http"

	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, logger: logger}
}

// List godoc
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param entityType query string false "Filter by entity type"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AuditLogDTO}
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var entityType *string
	if et := r.URL.Query().Get("entityType"); et != "" {
		entityType = &et
	}

	result, err := h.auditService.List(r.Context(), page, pageSize, entityType)
	if err != nil {
		h.logger.Error("failed to list audit entries", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
