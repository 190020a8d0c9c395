package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
)

// LeadsService exposes read/delete/export operations over the lead store.
type LeadsService struct {
	repo     repository.LeadsRepository
	activity repository.ActivityRepository
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, activity repository.ActivityRepository) *LeadsService {
	return &LeadsService{repo: repo, activity: activity}
}

// List returns leads respecting pagination defaults.
func (s *LeadsService) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.repo.List(ctx, filter)
}

// Get retrieves a single lead.
func (s *LeadsService) Get(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes the given leads. Deletion is an explicit operator action;
// nothing in the ingest pipeline deletes leads.
func (s *LeadsService) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.repo.Delete(ctx, ids)
}

// Stats aggregates the dashboard header numbers.
func (s *LeadsService) Stats(ctx context.Context) (dto.DashboardStats, error) {
	return s.repo.Stats(ctx)
}

var exportHeader = []string{
	"business_name", "address", "phone", "email", "website", "source",
	"google_rating", "google_review_count", "lead_score", "lead_grade",
	"lead_priority", "audit_status", "created_at",
}

// ExportCSV streams the filtered lead list as CSV and returns the number of
// exported rows. Pagination is bypassed: an export always covers the whole
// filtered set.
func (s *LeadsService) ExportCSV(ctx context.Context, filter dto.LeadFilter, w io.Writer) (int, error) {
	filter.Page = 1
	filter.PerPage = 100

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	exported := 0
	for {
		leads, err := s.repo.List(ctx, filter)
		if err != nil {
			return exported, err
		}
		for _, lead := range leads {
			if err := writer.Write(exportRow(lead)); err != nil {
				return exported, fmt.Errorf("write csv row: %w", err)
			}
			exported++
		}
		if len(leads) < filter.PerPage {
			break
		}
		filter.Page++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return exported, fmt.Errorf("flush csv: %w", err)
	}

	if err := s.activity.Record(ctx, entity.ActionExport, fmt.Sprintf("Exported %d leads to CSV", exported), nil); err != nil {
		log.Printf("record export activity: %v", err)
	}
	return exported, nil
}

func exportRow(lead entity.Lead) []string {
	return []string{
		lead.BusinessName,
		stringOrEmpty(lead.Address),
		stringOrEmpty(lead.Phone),
		stringOrEmpty(lead.Email),
		stringOrEmpty(lead.Website),
		string(lead.Source),
		floatOrEmpty(lead.GoogleRating),
		intOrEmpty(lead.GoogleReviewCount),
		intOrEmpty(lead.LeadScore),
		stringOrEmpty(lead.LeadGrade),
		stringOrEmpty(lead.LeadPriority),
		auditStatusOrEmpty(lead.AuditStatus),
		lead.CreatedAt.Format(time.RFC3339),
	}
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatOrEmpty(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func intOrEmpty(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func auditStatusOrEmpty(value *entity.AuditStatus) string {
	if value == nil {
		return ""
	}
	return string(*value)
}
