package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/validator"
)

// StaffService handles business logic for staff records
type StaffService struct {
	staff StaffStore
	audit *AuditService
	phone *validator.PhoneValidator
}

// NewStaffService creates a new StaffService
func NewStaffService(staff StaffStore, audit *AuditService) *StaffService {
	return &StaffService{staff: staff, audit: audit, phone: validator.NewPhoneValidator()}
}

func (s *StaffService) reportTo(ctx context.Context, raw string, self uuid.UUID) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID("report_to", raw)
	if err != nil {
		return nil, err
	}
	if id == self {
		return nil, invalid("report_to", "A staff member cannot report to themselves")
	}
	if _, err := s.staff.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Create registers a staff member as active
func (s *StaffService) Create(ctx context.Context, actor Actor, req *models.CreateStaffRequest) (*models.Staff, error) {
	phone, err := s.phone.Validate(req.Phone)
	if err != nil {
		return nil, invalid("phone", "Invalid phone number: "+err.Error())
	}
	joinDate, err := booking.ParseDate(req.JoinDate)
	if err != nil {
		return nil, invalid("join_date", err.Error())
	}
	manager, err := s.reportTo(ctx, req.ReportTo, uuid.Nil)
	if err != nil {
		return nil, err
	}

	member := &models.Staff{
		HotelID:    actor.HotelID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      phone,
		Position:   req.Position,
		Department: models.Department(req.Department),
		Status:     models.StaffStatusActive,
		JoinDate:   joinDate,
		Salary:     models.RoundMoney(req.Salary),
		ReportTo:   manager,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Get returns one staff member
func (s *StaffService) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

// List returns staff grouped by department
func (s *StaffService) List(ctx context.Context, actor Actor, filter models.StaffFilter) ([]models.Staff, error) {
	return s.staff.List(ctx, actor.HotelID, filter)
}

// Update applies a partial update to a staff record
func (s *StaffService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateStaffRequest) (*models.Staff, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Phone != nil {
		phone, err := s.phone.Validate(*req.Phone)
		if err != nil {
			return nil, invalid("phone", "Invalid phone number: "+err.Error())
		}
		member.Phone = phone
	}
	if req.Position != nil {
		member.Position = *req.Position
	}
	if req.Department != nil {
		member.Department = models.Department(*req.Department)
	}
	if req.Status != nil {
		member.Status = models.StaffStatus(*req.Status)
	}
	if req.Salary != nil {
		member.Salary = models.RoundMoney(*req.Salary)
	}
	if req.ReportTo != nil {
		manager, err := s.reportTo(ctx, *req.ReportTo, member.ID)
		if err != nil {
			return nil, err
		}
		member.ReportTo = manager
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a staff record
func (s *StaffService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, AuditEvent{Action: AuditStaffDelete, EntityType: "staff", EntityID: &id})
	return nil
}
