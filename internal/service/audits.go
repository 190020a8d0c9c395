package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/audit"
	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/service/scoring"
)

// AuditsService dispatches website audits to the worker and applies the
// results. Applying a result is the only path that recomputes an existing
// lead's score; re-ingestion never does.
type AuditsService struct {
	leads    repository.LeadsRepository
	worker   audit.Enqueuer
	activity repository.ActivityRepository
}

// NewAuditsService wires a new AuditsService.
func NewAuditsService(leads repository.LeadsRepository, worker audit.Enqueuer, activity repository.ActivityRepository) *AuditsService {
	return &AuditsService{leads: leads, worker: worker, activity: activity}
}

// Run marks the lead as running and enqueues an audit job for its website.
func (s *AuditsService) Run(ctx context.Context, leadID uuid.UUID, requestID string) error {
	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Website == nil || *lead.Website == "" {
		return ValidationError{Message: "lead has no website to audit"}
	}

	if err := s.leads.UpdateAuditStatus(ctx, leadID, entity.AuditRunning); err != nil {
		return err
	}

	job := audit.Job{LeadID: leadID.String(), Website: *lead.Website}
	if err := s.worker.Enqueue(ctx, job, requestID); err != nil {
		if statusErr := s.leads.UpdateAuditStatus(ctx, leadID, entity.AuditError); statusErr != nil {
			log.Printf("reset audit status for %s: %v", leadID, statusErr)
		}
		return err
	}

	if err := s.activity.Record(ctx, entity.ActionAudit,
		fmt.Sprintf("Audit queued for %s", lead.BusinessName), &leadID); err != nil {
		log.Printf("record audit activity: %v", err)
	}
	return nil
}

// SaveResult persists the worker callback: audit signals are stored and the
// lead score, grade and priority are recomputed from the refreshed picture.
func (s *AuditsService) SaveResult(ctx context.Context, req dto.AuditResultRequest) error {
	leadID, err := uuid.Parse(strings.TrimSpace(req.LeadID))
	if err != nil {
		return ValidationError{Message: "invalid lead_id"}
	}

	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return err
	}

	if strings.EqualFold(req.Status, string(entity.AuditError)) {
		return s.leads.UpdateAuditStatus(ctx, leadID, entity.AuditError)
	}

	signals := req.Signals
	result := scoring.Compute(scoring.Input{
		Phone:             lead.Phone,
		Email:             lead.Email,
		Website:           lead.Website,
		GoogleRating:      lead.GoogleRating,
		GoogleReviewCount: lead.GoogleReviewCount,
		Audit:             &signals,
	})

	update := repository.AuditUpdate{
		Status:       entity.AuditComplete,
		Data:         &signals,
		AuditScore:   signals.OverallScore,
		LeadScore:    &result.Score,
		LeadGrade:    &result.Grade,
		LeadPriority: &result.Priority,
	}
	if err := s.leads.UpdateAudit(ctx, leadID, update); err != nil {
		return err
	}

	if err := s.activity.Record(ctx, entity.ActionAudit,
		fmt.Sprintf("Audit completed for %s (score %d, %s)", lead.BusinessName, result.Score, result.Priority), &leadID); err != nil {
		log.Printf("record audit activity: %v", err)
	}
	return nil
}
