package models

import "time"

type TimeEntryType string

const (
	ClockIn  TimeEntryType = "clock_in"
	ClockOut TimeEntryType = "clock_out"
)

type TimeEntry struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	EmployeeName string        `gorm:"size:100;not null;index" json:"employeeName"`
	Type         TimeEntryType `gorm:"size:20;not null" json:"type"`
	Timestamp    time.Time     `gorm:"index;not null" json:"timestamp"`
	CreatedAt    time.Time     `json:"createdAt"`
}
