package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/middleware"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

// AuditHandler dispatches audits and receives worker callbacks.
type AuditHandler struct {
	audits *service.AuditsService
}

// NewAuditHandler wires a new AuditHandler.
func NewAuditHandler(audits *service.AuditsService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// Run handles POST /leads/:id/audit requests.
func (h *AuditHandler) Run(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	err = h.audits.Run(c.Request().Context(), id, middleware.RequestIDFromContext(c))
	if err != nil {
		var validationErr service.ValidationError
		switch {
		case errors.Is(err, repository.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "lead not found")
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		default:
			return Error(c, http.StatusBadGateway, err.Error())
		}
	}

	return Success(c, http.StatusAccepted, "audit queued", map[string]any{"lead_id": id})
}

// SaveResult handles POST /audit-result callbacks from the audit worker.
func (h *AuditHandler) SaveResult(c echo.Context) error {
	var payload dto.AuditResultRequest
	if err := c.Bind(&payload); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if payload.LeadID == "" {
		return Error(c, http.StatusBadRequest, "lead_id is required")
	}

	if err := h.audits.SaveResult(c.Request().Context(), payload); err != nil {
		var validationErr service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, repository.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "lead not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to persist audit result")
		}
	}

	return Success(c, http.StatusOK, "audit stored", map[string]any{"lead_id": payload.LeadID})
}
