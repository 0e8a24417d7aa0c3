package models

type Dashboard struct {
	ActiveEmployees    int    `json:"active_employees"`
	PresentToday       int    `json:"present_today"`
	PendingAttendance  int    `json:"pending_attendance"`
	PendingLeave       int    `json:"pending_leave"`
	OpenJobPostings    int    `json:"open_job_postings"`
	PayslipsThisPeriod int    `json:"payslips_this_period"`
	Date               string `json:"date"`
	Period             string `json:"period"`
}
