package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service"
)

// DashboardHandler serves the dashboard header stats and the activity feed.
type DashboardHandler struct {
	leads    *service.LeadsService
	activity repository.ActivityRepository
}

// NewDashboardHandler wires a new DashboardHandler.
func NewDashboardHandler(leads *service.LeadsService, activity repository.ActivityRepository) *DashboardHandler {
	return &DashboardHandler{leads: leads, activity: activity}
}

// Stats handles GET /stats requests.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.leads.Stats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to aggregate stats")
	}
	return Success(c, http.StatusOK, "ok", stats)
}

// Activity handles GET /activity requests.
func (h *DashboardHandler) Activity(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 50)
	entries, err := h.activity.List(c.Request().Context(), limit)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list activity")
	}
	return Success(c, http.StatusOK, "ok", entries)
}
