package models

import "strings"

// FacultyCount mirrors the `_count` relation block of the backend.
type FacultyCount struct {
	Schedules int `json:"Schedules"`
}

// Faculty is a read-only roster entry. Count.Schedules is tallied by the console.
type Faculty struct {
	FacultyID   int64        `json:"FacultyID"`
	FirstName   string       `json:"FirstName"`
	LastName    string       `json:"LastName"`
	Position    string       `json:"Position,omitempty"`
	Designation string       `json:"Designation,omitempty"`
	Department  string       `json:"Department,omitempty"`
	Count       FacultyCount `json:"_count"`
}

// FullName joins the name parts.
func (f Faculty) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
}
