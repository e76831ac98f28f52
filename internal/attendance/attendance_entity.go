package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

// Attendance is a day-level record: one row per employee per day.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_attendances_company_date"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendances_employee_date"`

	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendances_employee_date;index:idx_attendances_company_date"`
	Status         string    `gorm:"type:varchar(20);not null;default:'PRESENT'"`
	Notes          *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is what the deduction calculator consumes: how many full-day
// absences and how many late arrivals an employee had inside a pay period.
type Summary struct {
	AbsentDays int
	LateDays   int
}
