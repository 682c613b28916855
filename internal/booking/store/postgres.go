package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"leadcrm/internal/booking/models"
	"leadcrm/internal/platform/postgres"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
)

const applicationColumns = `b.id, b.lead_id, b.project_name, b.application_date, b.flat_number, b.floor,
	b.rera_carpet_area, b.exclusive_deck_balcony, b.car_parking_count, b.total_purchase_price,
	b.total_purchase_price_words, b.self_financed, b.housing_loan, b.source_direct,
	b.source_direct_specify, b.referral_customer_name, b.referral_project, b.referral_flat_no,
	b.application_money_amount, b.application_money_words, b.gst_amount, b.gst_words,
	b.cheque_dd_no, b.instrument_date, b.drawn_on, b.gst_cheque_dd_no, b.gst_instrument_date,
	b.gst_drawn_on, b.sales_manager_name, b.sourcing_manager_name, b.created_at, b.updated_at,
	cp.name, cp.maharera_registration, cp.mobile, cp.email`

const applicationFrom = `FROM booking_applications b
	LEFT JOIN booking_channel_partners cp ON cp.booking_id = b.id`

const applicantColumns = `id, booking_id, applicant_order, title, first_name, middle_name, last_name,
	date_of_birth, marital_status, anniversary_date, sex, pan_no, aadhar_no, residential_status,
	residential_address, city, pin, state, country, correspondence_address, contact_residence,
	contact_office, mobile, email, employment_type, profession, company_name`

// PostgresStore persists bookings across booking_applications,
// booking_applicants and booking_channel_partners.
type PostgresStore struct {
	db     *sql.DB
	runner *tx.SQLRunner
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: tx.NewSQLRunner(db)}
}

// Create writes the application, its applicants and partner in one transaction.
func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.Exec(ctx, s.db)
		_, err := exec.ExecContext(ctx, `
			INSERT INTO booking_applications (id, lead_id, project_name, application_date, flat_number,
				floor, rera_carpet_area, exclusive_deck_balcony, car_parking_count, total_purchase_price,
				total_purchase_price_words, self_financed, housing_loan, source_direct,
				source_direct_specify, referral_customer_name, referral_project, referral_flat_no,
				application_money_amount, application_money_words, gst_amount, gst_words,
				cheque_dd_no, instrument_date, drawn_on, gst_cheque_dd_no, gst_instrument_date,
				gst_drawn_on, sales_manager_name, sourcing_manager_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
				$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
		`, uuid.UUID(app.ID), uuid.UUID(app.LeadID), app.ProjectName, app.ApplicationDate, app.FlatNumber,
			app.Floor, app.RERACarpetArea, app.ExclusiveDeckBalcony, app.CarParkingCount, app.TotalPurchasePrice,
			app.TotalPurchasePriceWords, app.SelfFinanced, app.HousingLoan, app.SourceDirect,
			app.SourceDirectSpecify, app.ReferralCustomerName, app.ReferralProject, app.ReferralFlatNo,
			app.ApplicationMoneyAmount, app.ApplicationMoneyWords, app.GSTAmount, app.GSTWords,
			app.ChequeDDNo, app.InstrumentDate, app.DrawnOn, app.GSTChequeDDNo, app.GSTInstrumentDate,
			app.GSTDrawnOn, app.SalesManagerName, app.SourcingManagerName, app.CreatedAt, app.UpdatedAt)
		if err != nil {
			if postgres.IsForeignKeyViolation(err) {
				return fmt.Errorf("lead %s: %w", app.LeadID, sentinel.ErrNotFound)
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		for _, a := range app.Applicants {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO booking_applicants (`+applicantColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
					$19, $20, $21, $22, $23, $24, $25, $26, $27)
			`, uuid.UUID(a.ID), uuid.UUID(app.ID), a.Order, a.Title, a.FirstName, a.MiddleName, a.LastName,
				a.DateOfBirth, a.MaritalStatus, a.AnniversaryDate, a.Sex, a.PANNo, a.AadharNo, a.ResidentialStatus,
				a.ResidentialAddress, a.City, a.Pin, a.State, a.Country, a.CorrespondenceAddress, a.ContactResidence,
				a.ContactOffice, a.Mobile, a.Email, a.EmploymentType, a.Profession, a.CompanyName)
			if err != nil {
				if _, ok := postgres.UniqueViolation(err); ok {
					return fmt.Errorf("applicant order %d: %w", a.Order, sentinel.ErrAlreadyUsed)
				}
				return fmt.Errorf("insert applicant: %w", err)
			}
		}

		if cp := app.ChannelPartner; cp != nil {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO booking_channel_partners (booking_id, name, maharera_registration, mobile, email)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.UUID(app.ID), cp.Name, cp.MahaRERARegistration, cp.Mobile, cp.Email)
			if err != nil {
				return fmt.Errorf("insert booking channel partner: %w", err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app                              models.Application
		bid, lid                         uuid.UUID
		cpName, cpRERA, cpMobile, cpMail sql.NullString
	)
	err := row.Scan(&bid, &lid, &app.ProjectName, &app.ApplicationDate, &app.FlatNumber, &app.Floor,
		&app.RERACarpetArea, &app.ExclusiveDeckBalcony, &app.CarParkingCount, &app.TotalPurchasePrice,
		&app.TotalPurchasePriceWords, &app.SelfFinanced, &app.HousingLoan, &app.SourceDirect,
		&app.SourceDirectSpecify, &app.ReferralCustomerName, &app.ReferralProject, &app.ReferralFlatNo,
		&app.ApplicationMoneyAmount, &app.ApplicationMoneyWords, &app.GSTAmount, &app.GSTWords,
		&app.ChequeDDNo, &app.InstrumentDate, &app.DrawnOn, &app.GSTChequeDDNo, &app.GSTInstrumentDate,
		&app.GSTDrawnOn, &app.SalesManagerName, &app.SourcingManagerName, &app.CreatedAt, &app.UpdatedAt,
		&cpName, &cpRERA, &cpMobile, &cpMail)
	if err != nil {
		return nil, err
	}
	app.ID = id.BookingID(bid)
	app.LeadID = id.LeadID(lid)
	if cpName.Valid {
		app.ChannelPartner = &models.ChannelPartner{
			Name:                 cpName.String,
			MahaRERARegistration: cpRERA.String,
			Mobile:               cpMobile.String,
			Email:                cpMail.String,
		}
	}
	app.Applicants = []models.Applicant{}
	return &app, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, bookingID id.BookingID) (*models.Application, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` `+applicationFrom+` WHERE b.id = $1`, uuid.UUID(bookingID))
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if err := s.loadApplicants(ctx, []*models.Application{app}); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *PostgresStore) ListByLead(ctx context.Context, leadID id.LeadID) ([]*models.Application, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+applicationColumns+` `+applicationFrom+` WHERE b.lead_id = $1 ORDER BY b.created_at DESC`,
		uuid.UUID(leadID))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []*models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadApplicants(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) loadApplicants(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Application, len(apps))
	ids := make([]string, 0, len(apps))
	for _, app := range apps {
		byID[uuid.UUID(app.ID)] = app
		ids = append(ids, app.ID.String())
	}

	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM booking_applicants
		WHERE booking_id = ANY($1::uuid[]) ORDER BY booking_id, applicant_order`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load applicants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a        models.Applicant
			aid, bid uuid.UUID
		)
		if err := rows.Scan(&aid, &bid, &a.Order, &a.Title, &a.FirstName, &a.MiddleName, &a.LastName,
			&a.DateOfBirth, &a.MaritalStatus, &a.AnniversaryDate, &a.Sex, &a.PANNo, &a.AadharNo, &a.ResidentialStatus,
			&a.ResidentialAddress, &a.City, &a.Pin, &a.State, &a.Country, &a.CorrespondenceAddress, &a.ContactResidence,
			&a.ContactOffice, &a.Mobile, &a.Email, &a.EmploymentType, &a.Profession, &a.CompanyName); err != nil {
			return fmt.Errorf("scan applicant: %w", err)
		}
		a.ID = id.ApplicantID(aid)
		if app, ok := byID[bid]; ok {
			app.Applicants = append(app.Applicants, a)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) LeadsWithBooking(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	out := make(map[id.LeadID]bool, len(leadIDs))
	if len(leadIDs) == 0 {
		return out, nil
	}
	raw := make([]string, len(leadIDs))
	for i, lid := range leadIDs {
		raw[i] = lid.String()
	}
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT DISTINCT lead_id FROM booking_applications WHERE lead_id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("booking status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lid uuid.UUID
		if err := rows.Scan(&lid); err != nil {
			return nil, fmt.Errorf("scan booking status: %w", err)
		}
		out[id.LeadID(lid)] = true
	}
	return out, rows.Err()
}
