package models

const (
	DateLayout   = "2006-01-02"
	PeriodLayout = "2006-01"
)
