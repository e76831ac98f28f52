package attendance

type CreateAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"required,oneof=PRESENT LATE ABSENT"`
	Notes      *string `json:"notes"`
}

type AttendanceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	AbsentDays int    `json:"absent_days"`
	LateDays   int    `json:"late_days"`
}
