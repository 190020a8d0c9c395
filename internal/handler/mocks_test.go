package handler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/repository"
)

type stubLeadsRepository struct {
	findByIdentity    func(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error)
	findByID          func(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	insert            func(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	updateContact     func(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error
	updateAuditStatus func(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error
	updateAudit       func(ctx context.Context, id uuid.UUID, update repository.AuditUpdate) error
	list              func(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error)
	del               func(ctx context.Context, ids []uuid.UUID) (int, error)
	stats             func(ctx context.Context) (dto.DashboardStats, error)
}

func (s *stubLeadsRepository) FindByIdentity(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error) {
	if s.findByIdentity != nil {
		return s.findByIdentity(ctx, businessName, source)
	}
	return nil, errors.New("findByIdentity not stubbed")
}

func (s *stubLeadsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, errors.New("findByID not stubbed")
}

func (s *stubLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if s.insert != nil {
		return s.insert(ctx, lead)
	}
	return nil, errors.New("insert not stubbed")
}

func (s *stubLeadsRepository) UpdateContact(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error {
	if s.updateContact != nil {
		return s.updateContact(ctx, id, update)
	}
	return errors.New("updateContact not stubbed")
}

func (s *stubLeadsRepository) UpdateAuditStatus(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error {
	if s.updateAuditStatus != nil {
		return s.updateAuditStatus(ctx, id, status)
	}
	return errors.New("updateAuditStatus not stubbed")
}

func (s *stubLeadsRepository) UpdateAudit(ctx context.Context, id uuid.UUID, update repository.AuditUpdate) error {
	if s.updateAudit != nil {
		return s.updateAudit(ctx, id, update)
	}
	return errors.New("updateAudit not stubbed")
}

func (s *stubLeadsRepository) UpdateCRMPush(ctx context.Context, id uuid.UUID, contactID string, pushedAt time.Time) error {
	return errors.New("updateCRMPush not stubbed")
}

func (s *stubLeadsRepository) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	if s.list != nil {
		return s.list(ctx, filter)
	}
	return nil, errors.New("list not stubbed")
}

func (s *stubLeadsRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if s.del != nil {
		return s.del(ctx, ids)
	}
	return 0, errors.New("delete not stubbed")
}

func (s *stubLeadsRepository) Stats(ctx context.Context) (dto.DashboardStats, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return dto.DashboardStats{}, errors.New("stats not stubbed")
}

type noopActivity struct{}

func (noopActivity) Record(ctx context.Context, action entity.ActionType, description string, leadID *uuid.UUID) error {
	return nil
}

func (noopActivity) List(ctx context.Context, limit int) ([]entity.ActivityEntry, error) {
	return nil, nil
}
