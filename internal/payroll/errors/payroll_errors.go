package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrNoActiveEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"no active employees to generate payroll for",
		http.StatusBadRequest,
	)
	ErrRatesNotConfigured = apperror.New(
		apperror.CodeInvalidState,
		"rate configuration is missing for this company",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrSyncInProgress = apperror.New(
		apperror.CodeConflict,
		"a synchronization for this period is already running",
		http.StatusConflict,
	)
)
