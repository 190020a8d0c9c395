package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrell35/Prospex/internal/entity"
)

// ActivityRepository persists operator-visible activity entries.
type ActivityRepository interface {
	Record(ctx context.Context, action entity.ActionType, description string, leadID *uuid.UUID) error
	List(ctx context.Context, limit int) ([]entity.ActivityEntry, error)
}

// PGXActivityRepository implements ActivityRepository using pgx.
type PGXActivityRepository struct {
	pool pgxPool
}

// NewPGXActivityRepository wires a pgx backed activity log.
func NewPGXActivityRepository(pool *pgxpool.Pool) *PGXActivityRepository {
	return &PGXActivityRepository{pool: pool}
}

// Record appends one activity entry.
func (r *PGXActivityRepository) Record(ctx context.Context, action entity.ActionType, description string, leadID *uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (action_type, description, lead_id) VALUES ($1, $2, $3)`,
		string(action), description, leadID)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// List returns the most recent activity entries, newest first.
func (r *PGXActivityRepository) List(ctx context.Context, limit int) ([]entity.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, action_type, description, lead_id, created_at
         FROM activity_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []entity.ActivityEntry
	for rows.Next() {
		var (
			entry  entity.ActivityEntry
			action string
			leadID *uuid.UUID
		)
		if err := rows.Scan(&entry.ID, &action, &entry.Description, &leadID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		entry.ActionType = entity.ActionType(action)
		entry.LeadID = leadID
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return entries, nil
}
