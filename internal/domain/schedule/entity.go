package schedule

import "time"

// DisplayDateLayout is how assignment dates are presented to clients.
const DisplayDateLayout = "02 Jan 2006"

type ShiftAssignment struct {
	ID           string
	EmployeeNIK  string
	Date         time.Time
	ShiftCode    string
	EmployeeName string // denormalized at assignment time
	Section      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
