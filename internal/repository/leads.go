package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
)

var (
	// ErrLeadNotFound is returned when no lead matches the lookup criteria.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrDuplicateLead signals that an insert raced a concurrent ingest of
	// the same (business_name, source) identity key.
	ErrDuplicateLead = errors.New("lead already exists")
)

// ContactUpdate carries the fields refreshed on re-ingestion. Score and audit
// fields are deliberately absent: re-ingestion never touches them.
type ContactUpdate struct {
	Phone             *string
	Email             *string
	Website           *string
	GoogleRating      *float64
	GoogleReviewCount *int
}

// AuditUpdate carries the result of a completed (or failed) website audit
// together with the recomputed lead score.
type AuditUpdate struct {
	Status       entity.AuditStatus
	Data         *entity.AuditData
	AuditScore   *float64
	LeadScore    *int
	LeadGrade    *string
	LeadPriority *string
}

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	FindByIdentity(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	UpdateContact(ctx context.Context, id uuid.UUID, update ContactUpdate) error
	UpdateAuditStatus(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error
	UpdateAudit(ctx context.Context, id uuid.UUID, update AuditUpdate) error
	UpdateCRMPush(ctx context.Context, id uuid.UUID, contactID string, pushedAt time.Time) error
	List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error)
	Delete(ctx context.Context, ids []uuid.UUID) (int, error)
	Stats(ctx context.Context) (dto.DashboardStats, error)
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const leadColumns = `
        id,
        business_name,
        address,
        phone,
        email,
        website,
        google_rating,
        google_review_count,
        google_maps_url,
        source,
        lead_score,
        lead_grade,
        lead_priority,
        audit_status,
        audit_score,
        audit_data,
        ghl_contact_id,
        ghl_pushed_at,
        created_at,
        updated_at
`

// FindByIdentity fetches the lead matching the merge identity key exactly.
// Unlike batch de-duplication this path is case-sensitive and includes the
// source; the two keys are intentionally different.
func (r *PGXLeadsRepository) FindByIdentity(ctx context.Context, businessName string, source entity.Source) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE business_name = $1 AND source = $2`,
		businessName, string(source))
	return scanLead(row)
}

// FindByID retrieves a lead by identifier.
func (r *PGXLeadsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

// Insert persists a freshly ingested lead with null score and audit fields.
// A unique violation on (business_name, source) maps to ErrDuplicateLead so
// the caller can degrade to a contact update, keeping batch re-runs safe.
func (r *PGXLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if lead == nil {
		return nil, fmt.Errorf("lead payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO leads (
            business_name,
            address,
            phone,
            email,
            website,
            google_rating,
            google_review_count,
            google_maps_url,
            source
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+leadColumns,
		lead.BusinessName,
		lead.Address,
		lead.Phone,
		lead.Email,
		lead.Website,
		lead.GoogleRating,
		lead.GoogleReviewCount,
		lead.GoogleMapsURL,
		string(lead.Source),
	)

	created, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateLead, pgErr)
		}
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return created, nil
}

// UpdateContact refreshes contact and rating fields only.
func (r *PGXLeadsRepository) UpdateContact(ctx context.Context, id uuid.UUID, update ContactUpdate) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE leads SET
            phone = $2,
            email = $3,
            website = $4,
            google_rating = $5,
            google_review_count = $6,
            updated_at = NOW()
        WHERE id = $1`,
		id,
		update.Phone,
		update.Email,
		update.Website,
		update.GoogleRating,
		update.GoogleReviewCount,
	)
	if err != nil {
		return fmt.Errorf("update lead contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateAuditStatus moves a lead through the audit lifecycle without
// touching signals or scores.
func (r *PGXLeadsRepository) UpdateAuditStatus(ctx context.Context, id uuid.UUID, status entity.AuditStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE leads SET audit_status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("update audit status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateAudit stores audit signals and the recomputed score in one write.
func (r *PGXLeadsRepository) UpdateAudit(ctx context.Context, id uuid.UUID, update AuditUpdate) error {
	var auditJSON any
	if update.Data != nil {
		encoded, err := json.Marshal(update.Data)
		if err != nil {
			return fmt.Errorf("marshal audit data: %w", err)
		}
		auditJSON = string(encoded)
	}

	cmd, err := r.pool.Exec(ctx, `
        UPDATE leads SET
            audit_status = $2,
            audit_score = $3,
            audit_data = $4::jsonb,
            lead_score = $5,
            lead_grade = $6,
            lead_priority = $7,
            updated_at = NOW()
        WHERE id = $1`,
		id,
		string(update.Status),
		update.AuditScore,
		auditJSON,
		update.LeadScore,
		update.LeadGrade,
		update.LeadPriority,
	)
	if err != nil {
		return fmt.Errorf("update lead audit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateCRMPush records the GHL contact linkage after a successful push.
func (r *PGXLeadsRepository) UpdateCRMPush(ctx context.Context, id uuid.UUID, contactID string, pushedAt time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE leads SET ghl_contact_id = $2, ghl_pushed_at = $3, updated_at = NOW() WHERE id = $1`,
		id, contactID, pushedAt)
	if err != nil {
		return fmt.Errorf("update crm push: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// List retrieves leads matching the provided filter, hottest first by default.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + leadColumns + ` FROM leads`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		clauses = append(clauses, fmt.Sprintf("(business_name ILIKE $%d OR address ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.Priority != "" {
		clauses = append(clauses, fmt.Sprintf("lead_priority = $%d", idx))
		args = append(args, filter.Priority)
		idx++
	}
	if filter.AuditStatus != "" {
		clauses = append(clauses, fmt.Sprintf("audit_status = $%d", idx))
		args = append(args, filter.AuditStatus)
		idx++
	}
	if filter.MinScore != nil {
		clauses = append(clauses, fmt.Sprintf("lead_score >= $%d", idx))
		args = append(args, *filter.MinScore)
		idx++
	}
	if filter.MaxScore != nil {
		clauses = append(clauses, fmt.Sprintf("lead_score <= $%d", idx))
		args = append(args, *filter.MaxScore)
		idx++
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}

	orderClause := "lead_score DESC NULLS LAST, business_name ASC"
	switch strings.ToLower(filter.Sort) {
	case "recent":
		orderClause = "updated_at DESC, business_name ASC"
	case "name":
		orderClause = "business_name ASC"
	case "rating":
		orderClause = "google_rating DESC NULLS LAST, business_name ASC"
	}
	query.WriteString(" ORDER BY ")
	query.WriteString(orderClause)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	query.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Delete removes leads by id and returns how many rows were deleted. Deletion
// is always an explicit operator action; ingestion never deletes.
func (r *PGXLeadsRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete leads: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// Stats aggregates the dashboard header numbers in one round trip.
func (r *PGXLeadsRepository) Stats(ctx context.Context) (dto.DashboardStats, error) {
	var (
		stats    dto.DashboardStats
		avgScore sql.NullFloat64
	)
	err := r.pool.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
            AVG(lead_score),
            COUNT(*) FILTER (WHERE ghl_contact_id IS NOT NULL),
            COUNT(*) FILTER (WHERE audit_status = 'complete')
        FROM leads`,
	).Scan(&stats.TotalLeads, &stats.LeadsThisWeek, &avgScore, &stats.PushedToGHL, &stats.AuditsCompleted)
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("aggregate lead stats: %w", err)
	}
	if avgScore.Valid {
		stats.AvgLeadScore = avgScore.Float64
	}
	return stats, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead         entity.Lead
		address      sql.NullString
		phone        sql.NullString
		email        sql.NullString
		website      sql.NullString
		rating       sql.NullFloat64
		reviews      sql.NullInt64
		mapsURL      sql.NullString
		source       string
		leadScore    sql.NullInt64
		leadGrade    sql.NullString
		leadPriority sql.NullString
		auditStatus  sql.NullString
		auditScore   sql.NullFloat64
		auditJSON    []byte
		ghlContactID sql.NullString
		ghlPushedAt  sql.NullTime
	)

	err := row.Scan(
		&lead.ID,
		&lead.BusinessName,
		&address,
		&phone,
		&email,
		&website,
		&rating,
		&reviews,
		&mapsURL,
		&source,
		&leadScore,
		&leadGrade,
		&leadPriority,
		&auditStatus,
		&auditScore,
		&auditJSON,
		&ghlContactID,
		&ghlPushedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	lead.Source = entity.Source(source)
	lead.Address = nullStringToPtr(address)
	lead.Phone = nullStringToPtr(phone)
	lead.Email = nullStringToPtr(email)
	lead.Website = nullStringToPtr(website)
	lead.GoogleMapsURL = nullStringToPtr(mapsURL)
	lead.GHLContactID = nullStringToPtr(ghlContactID)
	lead.LeadGrade = nullStringToPtr(leadGrade)
	lead.LeadPriority = nullStringToPtr(leadPriority)
	if rating.Valid {
		val := rating.Float64
		lead.GoogleRating = &val
	}
	if reviews.Valid {
		val := int(reviews.Int64)
		lead.GoogleReviewCount = &val
	}
	if leadScore.Valid {
		val := int(leadScore.Int64)
		lead.LeadScore = &val
	}
	if auditStatus.Valid {
		status := entity.AuditStatus(auditStatus.String)
		lead.AuditStatus = &status
	}
	if auditScore.Valid {
		val := auditScore.Float64
		lead.AuditScore = &val
	}
	if len(auditJSON) > 0 {
		var data entity.AuditData
		if err := json.Unmarshal(auditJSON, &data); err != nil {
			return nil, fmt.Errorf("unmarshal audit data: %w", err)
		}
		lead.AuditData = &data
	}
	if ghlPushedAt.Valid {
		ts := ghlPushedAt.Time
		lead.GHLPushedAt = &ts
	}

	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}
