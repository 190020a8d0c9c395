package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

// LeadsHandler exposes the lead table endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter, err := leadFilterFromQuery(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	leads, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return Success(c, http.StatusOK, "leads retrieved", leads)
}

// Get handles GET /leads/:id requests.
func (h *LeadsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	lead, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch lead")
	}

	return Success(c, http.StatusOK, "ok", lead)
}

// Delete handles DELETE /leads requests with an explicit id list.
func (h *LeadsHandler) Delete(c echo.Context) error {
	var req dto.DeleteLeadsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return Error(c, http.StatusBadRequest, "ids are required")
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return Error(c, http.StatusBadRequest, fmt.Sprintf("invalid lead id %q", raw))
		}
		ids = append(ids, id)
	}

	deleted, err := h.service.Delete(c.Request().Context(), ids)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to delete leads")
	}

	return Success(c, http.StatusOK, "leads deleted", map[string]any{"deleted": deleted})
}

// Export handles GET /leads/export requests and streams the filtered leads
// as a CSV attachment.
func (h *LeadsHandler) Export(c echo.Context) error {
	filter, err := leadFilterFromQuery(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	if _, err := h.service.ExportCSV(c.Request().Context(), filter, c.Response()); err != nil {
		// Headers are already out; all we can do is log through the
		// middleware chain by returning the error.
		return err
	}
	return nil
}

func leadFilterFromQuery(c echo.Context) (dto.LeadFilter, error) {
	filter := dto.LeadFilter{
		Search:      strings.TrimSpace(c.QueryParam("q")),
		Source:      strings.TrimSpace(c.QueryParam("source")),
		Priority:    strings.TrimSpace(c.QueryParam("priority")),
		AuditStatus: strings.TrimSpace(c.QueryParam("audit_status")),
		Sort:        strings.TrimSpace(c.QueryParam("sort")),
		Page:        parseIntDefault(c.QueryParam("page"), 1),
		PerPage:     parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if raw := strings.TrimSpace(c.QueryParam("min_score")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return dto.LeadFilter{}, errors.New("invalid min_score")
		}
		filter.MinScore = &value
	}
	if raw := strings.TrimSpace(c.QueryParam("max_score")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return dto.LeadFilter{}, errors.New("invalid max_score")
		}
		filter.MaxScore = &value
	}

	return filter, nil
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
