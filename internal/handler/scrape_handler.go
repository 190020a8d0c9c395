package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/provider"
	"github.com/tyrell35/Prospex/internal/service"
)

// ScrapeHandler runs ingest requests through the scrape pipeline.
type ScrapeHandler struct {
	ingest *service.IngestService
}

// NewScrapeHandler constructs a scrape handler.
func NewScrapeHandler(ingest *service.IngestService) *ScrapeHandler {
	return &ScrapeHandler{ingest: ingest}
}

// Run handles POST /scrape requests synchronously and returns the
// de-duplicated listings that were merged into the lead store.
func (h *ScrapeHandler) Run(c echo.Context) error {
	var req dto.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.ingest.Ingest(c.Request().Context(), req)
	if err != nil {
		var (
			validationErr service.ValidationError
			configErr     provider.ConfigurationError
			providerErr   provider.ProviderError
		)
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.As(err, &configErr):
			return Error(c, http.StatusBadRequest, configErr.Message)
		case errors.As(err, &providerErr):
			return Error(c, http.StatusBadGateway, providerErr.Error())
		default:
			return Error(c, http.StatusInternalServerError, "scrape failed")
		}
	}

	return Success(c, http.StatusOK, "scrape complete", resp)
}
