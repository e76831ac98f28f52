package rateserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"rate configuration not found",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrPercentageOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"percentages must be between 0 and 100",
		http.StatusBadRequest,
	)
)
