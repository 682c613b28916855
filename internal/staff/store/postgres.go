package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"leadcrm/internal/platform/postgres"
	"leadcrm/internal/staff/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
)

const staffColumns = `id, username, display_name, password_hash, role, active, created_at, updated_at`

// PostgresStore persists staff accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanStaff(row *sql.Row) (*models.Staff, error) {
	var (
		st  models.Staff
		sid uuid.UUID
	)
	if err := row.Scan(&sid, &st.Username, &st.DisplayName, &st.PasswordHash, &st.Role,
		&st.Active, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.ID = id.StaffID(sid)
	return &st, nil
}

func (s *PostgresStore) Create(ctx context.Context, st *models.Staff) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO staff_users (`+staffColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(st.ID), st.Username, st.DisplayName, st.PasswordHash, st.Role,
		st.Active, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolationOf(err, "staff_users_username_key") {
			return fmt.Errorf("username %s: %w", st.Username, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, staffID id.StaffID) (*models.Staff, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE id = $1`, uuid.UUID(staffID))
	st, err := scanStaff(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", staffID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.Staff, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE LOWER(username) = LOWER($1)`, username)
	st, err := scanStaff(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("username %s: %w", username, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return st, nil
}
