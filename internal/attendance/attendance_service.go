package attendance

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	errInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	errDuplicateDay = apperror.New(
		apperror.CodeConflict,
		"attendance already recorded for this day",
		http.StatusConflict,
	)
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAttendanceRequest) (AttendanceResponse, error)
	GetPeriodSummary(ctx context.Context, companyID, period string) ([]SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateAttendanceRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrInvalidInput
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrInvalidInput
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, errInvalidDate
	}

	existing, err := s.repo.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, errDuplicateDay
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		Status:         req.Status,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create attendance persist failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) GetPeriodSummary(ctx context.Context, companyID, period string) ([]SummaryResponse, error) {
	from, to, err := PeriodBounds(period)
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.SummarizeByEmployee(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	resp := make([]SummaryResponse, 0, len(summaries))
	for employeeID, summary := range summaries {
		resp = append(resp, SummaryResponse{
			EmployeeID: employeeID.String(),
			AbsentDays: summary.AbsentDays,
			LateDays:   summary.LateDays,
		})
	}
	return resp, nil
}

// PeriodBounds resolves a "YYYY-MM" period to its first and last day.
func PeriodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

func mapToResponse(row Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         row.ID.String(),
		EmployeeID: row.EmployeeID.String(),
		Date:       row.AttendanceDate.Format("2006-01-02"),
		Status:     row.Status,
		Notes:      row.Notes,
	}
}
