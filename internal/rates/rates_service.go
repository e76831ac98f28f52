package rates

import (
	"context"
	"database/sql"
	"errors"
	"time"

	rateserrors "go-payroll/internal/rates/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rates_service.go -destination=mock/rates_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID string) (RateConfigResponse, error)
	Update(ctx context.Context, companyID string, req UpdateRateConfigRequest) (RateConfigResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("rates.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rates.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Get collapses concurrent reads for the same company; every Synchronize run
// fetches the config once per request.
func (s *service) Get(ctx context.Context, companyID string) (RateConfigResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return RateConfigResponse{}, rateserrors.ErrInvalidCompanyID
	}

	v, err, _ := s.group.Do(companyID, func() (any, error) {
		config, err := s.repo.FindByCompany(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RateConfigResponse{}, rateserrors.ErrConfigNotFound
			}
			return RateConfigResponse{}, err
		}
		return mapToResponse(*config), nil
	})
	if err != nil {
		return RateConfigResponse{}, err
	}
	return v.(RateConfigResponse), nil
}

func (s *service) Update(ctx context.Context, companyID string, req UpdateRateConfigRequest) (RateConfigResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RateConfigResponse{}, rateserrors.ErrInvalidCompanyID
	}

	for _, pct := range []*float64{
		req.TaxPct,
		req.InsuranceEmployeePct,
		req.InsuranceCompanyPct,
		req.HousingAllowancePct,
		req.TransportAllowancePct,
	} {
		if pct == nil || *pct < 0 || *pct > 100 {
			return RateConfigResponse{}, rateserrors.ErrPercentageOutOfRange
		}
	}

	config, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return RateConfigResponse{}, err
		}
		config = &RateConfig{
			ID:        uuid.New(),
			CompanyID: companyUUID,
			CreatedAt: time.Now().UTC(),
		}
	}

	config.TaxPct = *req.TaxPct
	config.InsuranceEmployeePct = *req.InsuranceEmployeePct
	config.InsuranceCompanyPct = *req.InsuranceCompanyPct
	config.HousingAllowancePct = *req.HousingAllowancePct
	config.TransportAllowancePct = *req.TransportAllowancePct

	if err := s.repo.Upsert(ctx, config); err != nil {
		s.logger.Error("update rate config persist failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return RateConfigResponse{}, err
	}

	s.logger.Info("rate config updated",
		zap.String("company_id", companyID),
		zap.Float64("tax_pct", config.TaxPct),
		zap.Float64("insurance_employee_pct", config.InsuranceEmployeePct),
	)

	return mapToResponse(*config), nil
}

func mapToResponse(config RateConfig) RateConfigResponse {
	return RateConfigResponse{
		TaxPct:                config.TaxPct,
		InsuranceEmployeePct:  config.InsuranceEmployeePct,
		InsuranceCompanyPct:   config.InsuranceCompanyPct,
		HousingAllowancePct:   config.HousingAllowancePct,
		TransportAllowancePct: config.TransportAllowancePct,
	}
}
