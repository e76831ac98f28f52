package rates

type UpdateRateConfigRequest struct {
	TaxPct                *float64 `json:"tax_pct" binding:"required,min=0,max=100"`
	InsuranceEmployeePct  *float64 `json:"insurance_employee_pct" binding:"required,min=0,max=100"`
	InsuranceCompanyPct   *float64 `json:"insurance_company_pct" binding:"required,min=0,max=100"`
	HousingAllowancePct   *float64 `json:"housing_allowance_pct" binding:"required,min=0,max=100"`
	TransportAllowancePct *float64 `json:"transport_allowance_pct" binding:"required,min=0,max=100"`
}

type RateConfigResponse struct {
	TaxPct                float64 `json:"tax_pct"`
	InsuranceEmployeePct  float64 `json:"insurance_employee_pct"`
	InsuranceCompanyPct   float64 `json:"insurance_company_pct"`
	HousingAllowancePct   float64 `json:"housing_allowance_pct"`
	TransportAllowancePct float64 `json:"transport_allowance_pct"`
}
