package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
)

type mockLeadsRepository struct {
	findByIdentity    func(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error)
	findByID          func(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	insert            func(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	updateContact     func(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error
	updateAuditStatus func(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error
	updateAudit       func(ctx context.Context, id uuid.UUID, update repository.AuditUpdate) error
	updateCRMPush     func(ctx context.Context, id uuid.UUID, contactID string, pushedAt time.Time) error
	list              func(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error)
	del               func(ctx context.Context, ids []uuid.UUID) (int, error)
	stats             func(ctx context.Context) (dto.DashboardStats, error)
}

func (m *mockLeadsRepository) FindByIdentity(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error) {
	if m.findByIdentity != nil {
		return m.findByIdentity(ctx, businessName, source)
	}
	return nil, errors.New("findByIdentity not implemented")
}

func (m *mockLeadsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("findByID not implemented")
}

func (m *mockLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if m.insert != nil {
		return m.insert(ctx, lead)
	}
	return nil, errors.New("insert not implemented")
}

func (m *mockLeadsRepository) UpdateContact(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error {
	if m.updateContact != nil {
		return m.updateContact(ctx, id, update)
	}
	return errors.New("updateContact not implemented")
}

func (m *mockLeadsRepository) UpdateAuditStatus(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error {
	if m.updateAuditStatus != nil {
		return m.updateAuditStatus(ctx, id, status)
	}
	return errors.New("updateAuditStatus not implemented")
}

func (m *mockLeadsRepository) UpdateAudit(ctx context.Context, id uuid.UUID, update repository.AuditUpdate) error {
	if m.updateAudit != nil {
		return m.updateAudit(ctx, id, update)
	}
	return errors.New("updateAudit not implemented")
}

func (m *mockLeadsRepository) UpdateCRMPush(ctx context.Context, id uuid.UUID, contactID string, pushedAt time.Time) error {
	if m.updateCRMPush != nil {
		return m.updateCRMPush(ctx, id, contactID, pushedAt)
	}
	return errors.New("updateCRMPush not implemented")
}

func (m *mockLeadsRepository) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockLeadsRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if m.del != nil {
		return m.del(ctx, ids)
	}
	return 0, errors.New("delete not implemented")
}

func (m *mockLeadsRepository) Stats(ctx context.Context) (dto.DashboardStats, error) {
	if m.stats != nil {
		return m.stats(ctx)
	}
	return dto.DashboardStats{}, errors.New("stats not implemented")
}

type recordedActivity struct {
	action      entity.ActionType
	description string
	leadID      *uuid.UUID
}

type mockActivityRepository struct {
	recorded []recordedActivity
}

func (m *mockActivityRepository) Record(ctx context.Context, action entity.ActionType, description string, leadID *uuid.UUID) error {
	m.recorded = append(m.recorded, recordedActivity{action: action, description: description, leadID: leadID})
	return nil
}

func (m *mockActivityRepository) List(ctx context.Context, limit int) ([]entity.ActivityEntry, error) {
	return nil, nil
}

type stubFetcher struct {
	source   entity.Source
	listings []entity.Listing
	err      error
}

func (s *stubFetcher) Fetch(ctx context.Context, niche, location string) ([]entity.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func (s *stubFetcher) Source() entity.Source {
	return s.source
}
