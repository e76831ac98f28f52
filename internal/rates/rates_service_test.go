package rates_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-payroll/internal/rates"
	rateserrors "go-payroll/internal/rates/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRatesRepository struct {
	findByCompany func(ctx context.Context, companyID string) (*rates.RateConfig, error)
	upsert        func(ctx context.Context, config *rates.RateConfig) error
}

func (f *fakeRatesRepository) WithTx(tx *sql.Tx) rates.Repository { return f }

func (f *fakeRatesRepository) FindByCompany(ctx context.Context, companyID string) (*rates.RateConfig, error) {
	if f.findByCompany != nil {
		return f.findByCompany(ctx, companyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRatesRepository) Upsert(ctx context.Context, config *rates.RateConfig) error {
	if f.upsert != nil {
		return f.upsert(ctx, config)
	}
	return nil
}

func pct(v float64) *float64 { return &v }

func validUpdateRequest() rates.UpdateRateConfigRequest {
	return rates.UpdateRateConfigRequest{
		TaxPct:                pct(10),
		InsuranceEmployeePct:  pct(11),
		InsuranceCompanyPct:   pct(12),
		HousingAllowancePct:   pct(25),
		TransportAllowancePct: pct(10),
	}
}

func TestRatesService_Get(t *testing.T) {
	companyID := uuid.New()

	t.Run("returns configured percentages", func(t *testing.T) {
		repo := &fakeRatesRepository{
			findByCompany: func(ctx context.Context, id string) (*rates.RateConfig, error) {
				assert.Equal(t, companyID.String(), id)
				return &rates.RateConfig{
					ID:                    uuid.New(),
					CompanyID:             companyID,
					TaxPct:                10,
					InsuranceEmployeePct:  11,
					InsuranceCompanyPct:   12,
					HousingAllowancePct:   25,
					TransportAllowancePct: 10,
				}, nil
			},
		}
		service := rates.NewService(nil, repo)

		resp, err := service.Get(context.Background(), companyID.String())

		assert.NoError(t, err)
		assert.Equal(t, 10.0, resp.TaxPct)
		assert.Equal(t, 11.0, resp.InsuranceEmployeePct)
		assert.Equal(t, 25.0, resp.HousingAllowancePct)
	})

	t.Run("rejects malformed company id", func(t *testing.T) {
		service := rates.NewService(nil, &fakeRatesRepository{})

		_, err := service.Get(context.Background(), "not-a-uuid")

		assert.ErrorIs(t, err, rateserrors.ErrInvalidCompanyID)
	})

	t.Run("missing config maps to not found", func(t *testing.T) {
		service := rates.NewService(nil, &fakeRatesRepository{})

		_, err := service.Get(context.Background(), companyID.String())

		assert.ErrorIs(t, err, rateserrors.ErrConfigNotFound)
	})

	t.Run("concurrent reads collapse to a single lookup", func(t *testing.T) {
		var calls int32
		gate := make(chan struct{})
		repo := &fakeRatesRepository{
			findByCompany: func(ctx context.Context, id string) (*rates.RateConfig, error) {
				atomic.AddInt32(&calls, 1)
				<-gate
				return &rates.RateConfig{CompanyID: companyID, TaxPct: 10}, nil
			},
		}
		service := rates.NewService(nil, repo)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				resp, err := service.Get(context.Background(), companyID.String())
				assert.NoError(t, err)
				assert.Equal(t, 10.0, resp.TaxPct)
			}()
		}
		close(start)
		// Let every goroutine join the in-flight call before releasing it.
		for atomic.LoadInt32(&calls) == 0 {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		close(gate)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestRatesService_Update(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates config when none exists", func(t *testing.T) {
		var saved *rates.RateConfig
		repo := &fakeRatesRepository{
			upsert: func(ctx context.Context, config *rates.RateConfig) error {
				saved = config
				return nil
			},
		}
		service := rates.NewService(nil, repo)

		resp, err := service.Update(context.Background(), companyID.String(), validUpdateRequest())

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, companyID, saved.CompanyID)
		assert.NotEqual(t, uuid.Nil, saved.ID)
		assert.Equal(t, 10.0, resp.TaxPct)
		assert.Equal(t, 12.0, resp.InsuranceCompanyPct)
	})

	t.Run("overwrites existing config in place", func(t *testing.T) {
		existingID := uuid.New()
		var saved *rates.RateConfig
		repo := &fakeRatesRepository{
			findByCompany: func(ctx context.Context, id string) (*rates.RateConfig, error) {
				return &rates.RateConfig{ID: existingID, CompanyID: companyID, TaxPct: 5}, nil
			},
			upsert: func(ctx context.Context, config *rates.RateConfig) error {
				saved = config
				return nil
			},
		}
		service := rates.NewService(nil, repo)

		_, err := service.Update(context.Background(), companyID.String(), validUpdateRequest())

		assert.NoError(t, err)
		assert.Equal(t, existingID, saved.ID)
		assert.Equal(t, 10.0, saved.TaxPct)
	})

	t.Run("rejects percentage above hundred", func(t *testing.T) {
		service := rates.NewService(nil, &fakeRatesRepository{})

		req := validUpdateRequest()
		req.TaxPct = pct(101)
		_, err := service.Update(context.Background(), companyID.String(), req)

		assert.ErrorIs(t, err, rateserrors.ErrPercentageOutOfRange)
	})

	t.Run("rejects negative percentage", func(t *testing.T) {
		service := rates.NewService(nil, &fakeRatesRepository{})

		req := validUpdateRequest()
		req.HousingAllowancePct = pct(-1)
		_, err := service.Update(context.Background(), companyID.String(), req)

		assert.ErrorIs(t, err, rateserrors.ErrPercentageOutOfRange)
	})

	t.Run("rejects malformed company id", func(t *testing.T) {
		service := rates.NewService(nil, &fakeRatesRepository{})

		_, err := service.Update(context.Background(), "not-a-uuid", validUpdateRequest())

		assert.ErrorIs(t, err, rateserrors.ErrInvalidCompanyID)
	})
}
