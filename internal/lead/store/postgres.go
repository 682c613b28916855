package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"leadcrm/internal/lead/models"
	"leadcrm/internal/platform/postgres"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
)

const leadColumns = `l.id, l.project_id, l.form_number, l.form_date, l.first_name, l.middle_name,
	l.last_name, l.email, l.phone, l.sex, l.marital_status, l.date_of_birth, l.residential_address,
	l.city, l.locality, l.pincode, l.nationality, l.employment_type, l.company_name, l.designation,
	l.industry, l.configuration, l.budget, l.construction_status, l.purpose_of_buying,
	l.source_details, l.created_at, l.updated_at,
	cp.company_name, cp.partner_name, cp.mobile, cp.rera_number,
	r.referral_name, r.project_name`

const leadFrom = `FROM leads l
	LEFT JOIN lead_channel_partners cp ON cp.lead_id = l.id
	LEFT JOIN lead_referrals r ON r.lead_id = l.id`

// PostgresStore persists leads across the leads, lead_sources,
// lead_channel_partners and lead_referrals tables.
type PostgresStore struct {
	db     *sql.DB
	runner *tx.SQLRunner
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: tx.NewSQLRunner(db)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var (
		l                                   models.Lead
		lid                                 uuid.UUID
		pid                                 uuid.NullUUID
		cpCompany, cpName, cpMobile, cpRERA sql.NullString
		refName, refProject                 sql.NullString
	)
	err := row.Scan(&lid, &pid, &l.FormNumber, &l.FormDate, &l.FirstName, &l.MiddleName,
		&l.LastName, &l.Email, &l.Phone, &l.Sex, &l.MaritalStatus, &l.DateOfBirth, &l.ResidentialAddress,
		&l.City, &l.Locality, &l.Pincode, &l.Nationality, &l.EmploymentType, &l.CompanyName, &l.Designation,
		&l.Industry, &l.Configuration, &l.Budget, &l.ConstructionStatus, &l.PurposeOfBuying,
		&l.SourceDetails, &l.CreatedAt, &l.UpdatedAt,
		&cpCompany, &cpName, &cpMobile, &cpRERA,
		&refName, &refProject)
	if err != nil {
		return nil, err
	}
	l.ID = id.LeadID(lid)
	if pid.Valid {
		l.ProjectID = id.ProjectID(pid.UUID)
	}
	if cpCompany.Valid {
		l.ChannelPartner = &models.ChannelPartner{
			CompanyName: cpCompany.String,
			PartnerName: cpName.String,
			Mobile:      cpMobile.String,
			RERANumber:  cpRERA.String,
		}
	}
	if refName.Valid {
		l.Referral = &models.Referral{ReferralName: refName.String, ProjectName: refProject.String}
	}
	l.Sources = []string{}
	return &l, nil
}

func projectArg(projectID id.ProjectID) any {
	if projectID.IsNil() {
		return nil
	}
	return uuid.UUID(projectID)
}

// Create inserts the lead and its detail rows in one transaction.
func (s *PostgresStore) Create(ctx context.Context, l *models.Lead) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
			INSERT INTO leads (id, project_id, form_number, form_date, first_name, middle_name,
				last_name, email, phone, sex, marital_status, date_of_birth, residential_address,
				city, locality, pincode, nationality, employment_type, company_name, designation,
				industry, configuration, budget, construction_status, purpose_of_buying,
				source_details, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
				$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		`, uuid.UUID(l.ID), projectArg(l.ProjectID), l.FormNumber, l.FormDate, l.FirstName, l.MiddleName,
			l.LastName, l.Email, l.Phone, l.Sex, l.MaritalStatus, l.DateOfBirth, l.ResidentialAddress,
			l.City, l.Locality, l.Pincode, l.Nationality, l.EmploymentType, l.CompanyName, l.Designation,
			l.Industry, l.Configuration, l.Budget, l.ConstructionStatus, l.PurposeOfBuying,
			l.SourceDetails, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			if postgres.IsUniqueViolationOf(err, "leads_form_number_key") {
				return fmt.Errorf("lead form number %s: %w", l.FormNumber, sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("insert lead: %w", err)
		}
		return s.writeDetails(ctx, l)
	})
}

// writeDetails replaces sources, channel partner and referral rows.
func (s *PostgresStore) writeDetails(ctx context.Context, l *models.Lead) error {
	exec := tx.Exec(ctx, s.db)
	leadID := uuid.UUID(l.ID)

	for _, stmt := range []string{
		`DELETE FROM lead_sources WHERE lead_id = $1`,
		`DELETE FROM lead_channel_partners WHERE lead_id = $1`,
		`DELETE FROM lead_referrals WHERE lead_id = $1`,
	} {
		if _, err := exec.ExecContext(ctx, stmt, leadID); err != nil {
			return fmt.Errorf("clear lead details: %w", err)
		}
	}

	if len(l.Sources) > 0 {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO lead_sources (lead_id, source)
			SELECT $1, unnest($2::text[])
		`, leadID, pq.Array(l.Sources)); err != nil {
			return fmt.Errorf("insert lead sources: %w", err)
		}
	}
	if cp := l.ChannelPartner; cp != nil {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO lead_channel_partners (lead_id, company_name, partner_name, mobile, rera_number)
			VALUES ($1, $2, $3, $4, $5)
		`, leadID, cp.CompanyName, cp.PartnerName, cp.Mobile, cp.RERANumber); err != nil {
			return fmt.Errorf("insert channel partner: %w", err)
		}
	}
	if r := l.Referral; r != nil {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO lead_referrals (lead_id, referral_name, project_name)
			VALUES ($1, $2, $3)
		`, leadID, r.ReferralName, r.ProjectName); err != nil {
			return fmt.Errorf("insert referral: %w", err)
		}
	}
	return nil
}

// loadSources fills Sources for every lead in one query.
func (s *PostgresStore) loadSources(ctx context.Context, leads []*models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Lead, len(leads))
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		u := uuid.UUID(l.ID)
		byID[u] = l
		ids = append(ids, u.String())
	}
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT lead_id, source FROM lead_sources
		WHERE lead_id = ANY($1::uuid[])
		ORDER BY source
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load lead sources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			lid    uuid.UUID
			source string
		)
		if err := rows.Scan(&lid, &source); err != nil {
			return fmt.Errorf("scan lead source: %w", err)
		}
		if l, ok := byID[lid]; ok {
			l.Sources = append(l.Sources, source)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any, notFound string) (*models.Lead, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT `+leadColumns+` `+leadFrom+` WHERE `+where, arg)
	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", notFound, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	if err := s.loadSources(ctx, []*models.Lead{l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, leadID id.LeadID) (*models.Lead, error) {
	return s.findOne(ctx, `l.id = $1`, uuid.UUID(leadID), "lead "+leadID.String())
}

func (s *PostgresStore) FindByFormNumber(ctx context.Context, formNumber string) (*models.Lead, error) {
	return s.findOne(ctx, `l.form_number = $1`, formNumber, "lead form number "+formNumber)
}

func (s *PostgresStore) FormNumberExists(ctx context.Context, formNumber string) (bool, error) {
	var exists bool
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM leads WHERE form_number = $1)`, formNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check lead form number: %w", err)
	}
	return exists, nil
}

// Execute locks the lead row, validates, mutates and rewrites the lead and
// its details in one transaction.
func (s *PostgresStore) Execute(ctx context.Context, leadID id.LeadID, validate func(*models.Lead) error, mutate func(*models.Lead)) (*models.Lead, error) {
	var result *models.Lead
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := tx.Exec(ctx, s.db).ExecContext(ctx,
			`SELECT 1 FROM leads WHERE id = $1 FOR UPDATE`, uuid.UUID(leadID)); err != nil {
			return fmt.Errorf("lock lead: %w", err)
		}
		l, err := s.FindByID(ctx, leadID)
		if err != nil {
			return err
		}
		if err := validate(l); err != nil {
			return err
		}
		mutate(l)
		_, err = tx.Exec(ctx, s.db).ExecContext(ctx, `
			UPDATE leads SET form_date = $2, first_name = $3, middle_name = $4, last_name = $5,
				email = $6, phone = $7, sex = $8, marital_status = $9, date_of_birth = $10,
				residential_address = $11, city = $12, locality = $13, pincode = $14,
				nationality = $15, employment_type = $16, company_name = $17, designation = $18,
				industry = $19, configuration = $20, budget = $21, construction_status = $22,
				purpose_of_buying = $23, source_details = $24, updated_at = $25
			WHERE id = $1
		`, uuid.UUID(l.ID), l.FormDate, l.FirstName, l.MiddleName, l.LastName,
			l.Email, l.Phone, l.Sex, l.MaritalStatus, l.DateOfBirth,
			l.ResidentialAddress, l.City, l.Locality, l.Pincode,
			l.Nationality, l.EmploymentType, l.CompanyName, l.Designation,
			l.Industry, l.Configuration, l.Budget, l.ConstructionStatus,
			l.PurposeOfBuying, l.SourceDetails, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update lead: %w", err)
		}
		if err := s.writeDetails(ctx, l); err != nil {
			return err
		}
		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateFormNumber re-numbers a lead. Inside a transaction the statement runs
// under a savepoint, so a unique violation leaves the transaction usable for
// the next candidate.
func (s *PostgresStore) UpdateFormNumber(ctx context.Context, leadID id.LeadID, projectID id.ProjectID, formNumber string) error {
	sqlTx, inTx := tx.From(ctx)
	if !inTx {
		return s.updateFormNumber(ctx, s.db, leadID, projectID, formNumber)
	}

	if _, err := sqlTx.ExecContext(ctx, `SAVEPOINT lead_form_number`); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := s.updateFormNumber(ctx, sqlTx, leadID, projectID, formNumber); err != nil {
		if _, rbErr := sqlTx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT lead_form_number`); rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w (after %w)", rbErr, err)
		}
		return err
	}
	if _, err := sqlTx.ExecContext(ctx, `RELEASE SAVEPOINT lead_form_number`); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) updateFormNumber(ctx context.Context, exec tx.Executor, leadID id.LeadID, projectID id.ProjectID, formNumber string) error {
	res, err := exec.ExecContext(ctx,
		`UPDATE leads SET form_number = $2, project_id = $3 WHERE id = $1`,
		uuid.UUID(leadID), formNumber, projectArg(projectID))
	if err != nil {
		if postgres.IsUniqueViolationOf(err, "leads_form_number_key") {
			return fmt.Errorf("lead form number %s: %w", formNumber, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update lead form number: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead form number: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	return nil
}

// List returns every lead matching the search, project and date filters,
// newest first. Status filters and paging are applied by the caller.
func (s *PostgresStore) List(ctx context.Context, f models.ListFilter) ([]*models.Lead, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Search != "" {
		p := arg("%" + postgres.EscapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(`(l.first_name ILIKE %[1]s OR l.last_name ILIKE %[1]s
			OR l.email ILIKE %[1]s OR l.form_number ILIKE %[1]s OR l.city ILIKE %[1]s
			OR l.phone ILIKE %[1]s)`, p))
	}
	if f.Project != "" {
		conds = append(conds, "UPPER(l.form_number) LIKE "+arg(postgres.EscapeLike(f.Project)+"%"))
	}
	if !f.DateFrom.IsZero() {
		conds = append(conds, "l.created_at >= "+arg(f.DateFrom.Time))
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "l.created_at < "+arg(f.DateTo.AddDate(0, 0, 1)))
	}

	query := `SELECT ` + leadColumns + ` ` + leadFrom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	if err := s.loadSources(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
