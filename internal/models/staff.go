package models

import (
	"time"

	"github.com/google/uuid"
)

// Department groups staff members
type Department string

const (
	DepartmentManagement   Department = "management"
	DepartmentHousekeeping Department = "housekeeping"
	DepartmentReception    Department = "reception"
	DepartmentRestaurant   Department = "restaurant"
	DepartmentSecurity     Department = "security"
)

func (d Department) IsValid() bool {
	switch d {
	case DepartmentManagement, DepartmentHousekeeping, DepartmentReception, DepartmentRestaurant, DepartmentSecurity:
		return true
	}
	return false
}

// StaffStatus is the employment state of a staff member
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusOnLeave    StaffStatus = "on-leave"
	StaffStatusTerminated StaffStatus = "terminated"
)

// Staff is an employee record. Login accounts live in users.
type Staff struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	HotelID    *uuid.UUID  `db:"hotel_id" json:"hotel_id,omitempty"`
	Name       string      `db:"name" json:"name"`
	Email      string      `db:"email" json:"email"`
	Phone      string      `db:"phone" json:"phone"`
	Position   string      `db:"position" json:"position"`
	Department Department  `db:"department" json:"department"`
	Status     StaffStatus `db:"status" json:"status"`
	JoinDate   time.Time   `db:"join_date" json:"join_date"`
	Salary     float64     `db:"salary" json:"salary"`
	ReportTo   *uuid.UUID  `db:"report_to" json:"report_to,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// CreateStaffRequest is the payload for POST /staff
type CreateStaffRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      string  `json:"phone" binding:"required"`
	Position   string  `json:"position" binding:"required,max=100"`
	Department string  `json:"department" binding:"required,oneof=management housekeeping reception restaurant security"`
	JoinDate   string  `json:"join_date" binding:"required,isodate"`
	Salary     float64 `json:"salary" binding:"gte=0"`
	ReportTo   string  `json:"report_to" binding:"omitempty,uuid"`
}

// UpdateStaffRequest is a partial update of a staff record
type UpdateStaffRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=100"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Phone      *string  `json:"phone"`
	Position   *string  `json:"position" binding:"omitempty,max=100"`
	Department *string  `json:"department" binding:"omitempty,oneof=management housekeeping reception restaurant security"`
	Status     *string  `json:"status" binding:"omitempty,oneof=active on-leave terminated"`
	Salary     *float64 `json:"salary" binding:"omitempty,gte=0"`
	ReportTo   *string  `json:"report_to" binding:"omitempty,uuid"`
}

// StaffFilter narrows staff listings
type StaffFilter struct {
	Department string `form:"department" binding:"omitempty,oneof=management housekeeping reception restaurant security"`
	Status     string `form:"status" binding:"omitempty,oneof=active on-leave terminated"`
}
