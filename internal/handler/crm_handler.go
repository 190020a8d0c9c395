package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

// CRMHandler pushes leads to the CRM.
type CRMHandler struct {
	crm *service.CRMService
}

// NewCRMHandler wires a new CRMHandler.
func NewCRMHandler(crm *service.CRMService) *CRMHandler {
	return &CRMHandler{crm: crm}
}

// Push handles POST /leads/:id/push requests.
func (h *CRMHandler) Push(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	contactID, err := h.crm.Push(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusBadGateway, err.Error())
	}

	return Success(c, http.StatusOK, "lead pushed", map[string]any{"contact_id": contactID})
}
