package loan

type CreateLoanRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	Type         string `json:"type" binding:"required,oneof=ADVANCE PENALTY"`
	Amount       int64  `json:"amount" binding:"required,min=1"`
	Installments int    `json:"installments" binding:"min=0"`
	Date         string `json:"date" binding:"required"`
	Reason       string `json:"reason"`
}

type LoanResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	Type            string  `json:"type"`
	Amount          int64   `json:"amount"`
	RemainingAmount int64   `json:"remaining_amount"`
	Installments    int     `json:"installments"`
	Status          string  `json:"status"`
	RequestStatus   string  `json:"request_status"`
	Date            string  `json:"date"`
	Reason          string  `json:"reason"`
	CreatedBy       string  `json:"created_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
}

type GetLoansFilterRequest struct {
	Type          string `form:"type" binding:"omitempty,oneof=ADVANCE PENALTY"`
	RequestStatus string `form:"request_status" binding:"omitempty,oneof=PENDING REVIEWED APPROVED REJECTED"`
}
