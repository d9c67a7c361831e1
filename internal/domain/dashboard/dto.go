package dashboard

type AttendanceSummaryResponse struct {
	Date         string  `json:"date"`
	Scheduled    int64   `json:"scheduled"`
	ClockedIn    int64   `json:"clocked_in"`
	ClockedOut   int64   `json:"clocked_out"`
	NotClockedIn int64   `json:"not_clocked_in"`
	Unscheduled  int64   `json:"unscheduled"`
	PresentRate  float64 `json:"present_rate"` // percent of scheduled with a record
}

type PendingProposalsResponse struct {
	Total                 int64            `json:"total"`
	Submitted             map[string]int64 `json:"submitted"`
	CancellationRequested map[string]int64 `json:"cancellation_requested"`
}

type DashboardResponse struct {
	Attendance AttendanceSummaryResponse `json:"attendance"`
	Proposals  PendingProposalsResponse  `json:"proposals"`
}
