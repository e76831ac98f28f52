package maintenance

type CreateMaintenanceRequest struct {
	Vehicle     string `json:"vehicle" binding:"required"`
	Description string `json:"description" binding:"required"`
	Cost        int64  `json:"cost" binding:"required,min=1"`
	Date        string `json:"date" binding:"required"`
}

type GetMaintenanceFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING REVIEWED APPROVED REJECTED"`
}

type MaintenanceResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	Vehicle     string  `json:"vehicle"`
	Description string  `json:"description"`
	Cost        int64   `json:"cost"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ApprovedBy  *string `json:"approved_by,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
}
