package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const staffColumns = `
	id, hotel_id, name, email, phone, position, department, status, join_date,
	salary, report_to, created_at, updated_at`

// StaffRepository handles staff database operations
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create inserts a staff member
func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO staff (
			id, hotel_id, name, email, phone, position, department, status, join_date, salary, report_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.HotelID, s.Name, s.Email, s.Phone, s.Position, s.Department, s.Status,
		s.JoinDate, s.Salary, s.ReportTo,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create staff member")
	}
	return nil
}

// GetByID returns a staff member or ErrNotFound
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var s models.Staff
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &s, query, id); err != nil {
		return nil, wrap(err, "failed to get staff member")
	}
	return &s, nil
}

// List returns staff members ordered by department and name
func (r *StaffRepository) List(ctx context.Context, hotelID *uuid.UUID, filter models.StaffFilter) ([]models.Staff, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if hotelID != nil {
		add("hotel_id = $%d", *hotelID)
	}
	if filter.Department != "" {
		add("department = $%d", filter.Department)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}

	query := `SELECT ` + staffColumns + ` FROM staff`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY department, name"

	staff := []models.Staff{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &staff, query, args...); err != nil {
		return nil, wrap(err, "failed to list staff")
	}
	return staff, nil
}

// Update writes the editable columns of a staff member
func (r *StaffRepository) Update(ctx context.Context, s *models.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, email = $3, phone = $4, position = $5, department = $6,
		    status = $7, salary = $8, report_to = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Email, s.Phone, s.Position, s.Department, s.Status, s.Salary, s.ReportTo,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update staff member")
	}
	return nil
}

// Delete removes a staff member
func (r *StaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "failed to delete staff member")
	}
	return expectRow(result, "staff member")
}
