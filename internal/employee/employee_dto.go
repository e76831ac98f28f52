package employee

type GetEmployeesFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	CompanyID    string `json:"company_id"`
	Code         string `json:"code"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	Salary       int64  `json:"salary"`
	LeaveBalance int    `json:"leave_balance"`
	Status       string `json:"status"`
}
