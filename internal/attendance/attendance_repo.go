package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	FindAllByCompanyAndRange(ctx context.Context, companyID string, from, to time.Time) ([]Attendance, error)
	SummarizeByEmployee(ctx context.Context, companyID string, from, to time.Time) (map[uuid.UUID]Summary, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, row *Attendance) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	var row Attendance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date).
		First(&row).Error
	return &row, err
}

func (r *repository) FindAllByCompanyAndRange(ctx context.Context, companyID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("attendance_date BETWEEN ? AND ?", from, to).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

// SummarizeByEmployee aggregates absent/late day counts for every employee of
// the company inside [from, to]. Employees without rows simply have no entry;
// the calculator treats a missing summary as zero.
func (r *repository) SummarizeByEmployee(ctx context.Context, companyID string, from, to time.Time) (map[uuid.UUID]Summary, error) {
	type statusCount struct {
		EmployeeID uuid.UUID
		Status     string
		Count      int
	}

	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select("employee_id, status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Where("attendance_date BETWEEN ? AND ?", from, to).
		Where("status IN ?", []string{StatusAbsent, StatusLate}).
		Group("employee_id, status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[uuid.UUID]Summary, len(counts))
	for _, c := range counts {
		s := summaries[c.EmployeeID]
		switch c.Status {
		case StatusAbsent:
			s.AbsentDays = c.Count
		case StatusLate:
			s.LateDays = c.Count
		}
		summaries[c.EmployeeID] = s
	}

	return summaries, nil
}
