package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"leadcrm/internal/assessment/models"
	"leadcrm/internal/platform/postgres"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
)

const assessmentColumns = `id, lead_id, sourcing_manager, sales_manager, customer_gender,
	facilitated_by_pre_sales, executive_name, lead_classification, reason_for_lost,
	current_residence_config, current_residence_ownership, plot, family_size, area_looking,
	source_of_funding, ethnicity, other_projects_considered, sales_manager_remarks,
	created_at, updated_at`

// PostgresStore persists assessments in sales_assessments.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByLead(ctx context.Context, leadID id.LeadID) (*models.Assessment, error) {
	var (
		a        models.Assessment
		aid, lid uuid.UUID
	)
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+assessmentColumns+` FROM sales_assessments WHERE lead_id = $1`,
		uuid.UUID(leadID),
	).Scan(&aid, &lid, &a.SourcingManager, &a.SalesManager, &a.CustomerGender,
		&a.FacilitatedByPreSales, &a.ExecutiveName, &a.LeadClassification, &a.ReasonForLost,
		&a.CurrentResidenceConfig, &a.CurrentResidenceOwnership, &a.Plot, &a.FamilySize, &a.AreaLooking,
		&a.SourceOfFunding, &a.Ethnicity, &a.OtherProjectsConsidered, &a.SalesManagerRemarks,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment for lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find assessment: %w", err)
	}
	a.ID = id.AssessmentID(aid)
	a.LeadID = id.LeadID(lid)
	return &a, nil
}

// Save upserts on lead_id. xmax is zero only for a freshly inserted row,
// which tells the caller whether the assessment was created.
func (s *PostgresStore) Save(ctx context.Context, a *models.Assessment) (bool, error) {
	var (
		aid     uuid.UUID
		created bool
	)
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO sales_assessments (`+assessmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (lead_id) DO UPDATE SET
			sourcing_manager = EXCLUDED.sourcing_manager,
			sales_manager = EXCLUDED.sales_manager,
			customer_gender = EXCLUDED.customer_gender,
			facilitated_by_pre_sales = EXCLUDED.facilitated_by_pre_sales,
			executive_name = EXCLUDED.executive_name,
			lead_classification = EXCLUDED.lead_classification,
			reason_for_lost = EXCLUDED.reason_for_lost,
			current_residence_config = EXCLUDED.current_residence_config,
			current_residence_ownership = EXCLUDED.current_residence_ownership,
			plot = EXCLUDED.plot,
			family_size = EXCLUDED.family_size,
			area_looking = EXCLUDED.area_looking,
			source_of_funding = EXCLUDED.source_of_funding,
			ethnicity = EXCLUDED.ethnicity,
			other_projects_considered = EXCLUDED.other_projects_considered,
			sales_manager_remarks = EXCLUDED.sales_manager_remarks,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0)
	`, uuid.UUID(a.ID), uuid.UUID(a.LeadID), a.SourcingManager, a.SalesManager, a.CustomerGender,
		a.FacilitatedByPreSales, a.ExecutiveName, a.LeadClassification, a.ReasonForLost,
		a.CurrentResidenceConfig, a.CurrentResidenceOwnership, a.Plot, a.FamilySize, a.AreaLooking,
		a.SourceOfFunding, a.Ethnicity, a.OtherProjectsConsidered, a.SalesManagerRemarks,
		a.CreatedAt, a.UpdatedAt,
	).Scan(&aid, &a.CreatedAt, &created)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("lead %s: %w", a.LeadID, sentinel.ErrNotFound)
		}
		return false, fmt.Errorf("save assessment: %w", err)
	}
	a.ID = id.AssessmentID(aid)
	return created, nil
}

func (s *PostgresStore) LeadsWithAssessment(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	out := make(map[id.LeadID]bool, len(leadIDs))
	if len(leadIDs) == 0 {
		return out, nil
	}
	raw := make([]string, len(leadIDs))
	for i, lid := range leadIDs {
		raw[i] = lid.String()
	}
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT lead_id FROM sales_assessments WHERE lead_id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("assessment status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lid uuid.UUID
		if err := rows.Scan(&lid); err != nil {
			return nil, fmt.Errorf("scan assessment status: %w", err)
		}
		out[id.LeadID(lid)] = true
	}
	return out, rows.Err()
}
