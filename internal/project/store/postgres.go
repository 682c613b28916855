package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"leadcrm/internal/platform/postgres"
	"leadcrm/internal/project/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
)

const projectColumns = `id, name, site_name, address, location, company_name, maharera_no, logo_url,
	prefix, form_code, active, created_at, updated_at`

// PostgresStore persists projects in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p   models.Project
		pid uuid.UUID
	)
	if err := row.Scan(&pid, &p.Name, &p.SiteName, &p.Address, &p.Location, &p.CompanyName,
		&p.MahareraNo, &p.LogoURL, &p.Prefix, &p.FormCode, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.ProjectID(pid)
	return &p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Project) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, uuid.UUID(p.ID), p.Name, p.SiteName, p.Address, p.Location, p.CompanyName, p.MahareraNo,
		p.LogoURL, p.Prefix, p.FormCode, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolationOf(err, "projects_prefix_key") {
			return models.ErrPrefixTaken
		}
		if postgres.IsUniqueViolationOf(err, "projects_form_code_key") {
			return fmt.Errorf("project form code %s: %w", p.FormCode, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, uuid.UUID(projectID))
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", projectID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByPrefix(ctx context.Context, prefix string) (*models.Project, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE UPPER(prefix) = UPPER($1)`, prefix)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project prefix %s: %w", prefix, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find project by prefix: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, activeOnly bool) ([]*models.Project, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE NOT $1 OR active
		ORDER BY name, prefix
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FormCodeExists(ctx context.Context, formCode string) (bool, error) {
	var exists bool
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE form_code = $1)`, formCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check project form code: %w", err)
	}
	return exists, nil
}

// Execute locks the row with SELECT ... FOR UPDATE, validates, mutates and
// writes back in one transaction.
func (s *PostgresStore) Execute(ctx context.Context, projectID id.ProjectID, validate func(*models.Project) error, mutate func(*models.Project)) (*models.Project, error) {
	var result *models.Project
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, uuid.UUID(projectID))
		p, err := scanProject(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("project %s: %w", projectID, sentinel.ErrNotFound)
			}
			return fmt.Errorf("lock project: %w", err)
		}
		if err := validate(p); err != nil {
			return err
		}
		mutate(p)
		_, err = tx.Exec(ctx, s.db).ExecContext(ctx, `
			UPDATE projects SET name = $2, site_name = $3, address = $4, location = $5,
				company_name = $6, maharera_no = $7, logo_url = $8, active = $9, updated_at = $10
			WHERE id = $1
		`, uuid.UUID(p.ID), p.Name, p.SiteName, p.Address, p.Location, p.CompanyName,
			p.MahareraNo, p.LogoURL, p.Active, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
