package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/crm"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
)

// CRMService pushes leads to the CRM and records the linkage.
type CRMService struct {
	leads    repository.LeadsRepository
	pusher   crm.Pusher
	activity repository.ActivityRepository
}

// NewCRMService wires a new CRMService.
func NewCRMService(leads repository.LeadsRepository, pusher crm.Pusher, activity repository.ActivityRepository) *CRMService {
	return &CRMService{leads: leads, pusher: pusher, activity: activity}
}

// Push sends the lead to the CRM and stores the returned contact id. Pushing
// an already-pushed lead repeats the upsert on the CRM side.
func (s *CRMService) Push(ctx context.Context, leadID uuid.UUID) (string, error) {
	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		return "", err
	}

	contactID, err := s.pusher.PushContact(ctx, lead)
	if err != nil {
		return "", err
	}

	if err := s.leads.UpdateCRMPush(ctx, leadID, contactID, time.Now().UTC()); err != nil {
		return "", err
	}

	if err := s.activity.Record(ctx, entity.ActionGHLPush,
		fmt.Sprintf("Pushed %s to GHL (contact %s)", lead.BusinessName, contactID), &leadID); err != nil {
		log.Printf("record ghl push activity: %v", err)
	}
	return contactID, nil
}
