package rates

import (
	"time"

	"github.com/google/uuid"
)

// RateConfig holds the statutory and allowance percentages applied at
// computation time. One row per company; never versioned — already written
// payrolls keep the numbers they were computed with.
type RateConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	TaxPct               float64 `gorm:"type:numeric(5,2);not null;default:0"`
	InsuranceEmployeePct float64 `gorm:"type:numeric(5,2);not null;default:0"`
	InsuranceCompanyPct  float64 `gorm:"type:numeric(5,2);not null;default:0"`
	HousingAllowancePct  float64 `gorm:"type:numeric(5,2);not null;default:0"`
	TransportAllowancePct float64 `gorm:"type:numeric(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
