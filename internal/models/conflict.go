package models

// ConflictType tells which dimension of a candidate assignment collides.
type ConflictType string

const (
	ConflictTeacher ConflictType = "teacher"
	ConflictSection ConflictType = "section"
)

// ConflictingSchedule describes the existing schedule a candidate collides with.
type ConflictingSchedule struct {
	ScheduleID  int64  `json:"scheduleId,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
	SectionName string `json:"sectionName,omitempty"`
	FacultyName string `json:"facultyName,omitempty"`
	Day         string `json:"day,omitempty"`
	Time        string `json:"time,omitempty"`
}

// ConflictResult is one conflict reported by the backend.
type ConflictResult struct {
	Type                ConflictType         `json:"type"`
	Message             string               `json:"message"`
	ConflictingSchedule *ConflictingSchedule `json:"conflictingSchedule,omitempty"`
}

// ConflictCheck is the response of the conflict-detection endpoint.
type ConflictCheck struct {
	HasConflicts bool             `json:"hasConflicts"`
	Conflicts    []ConflictResult `json:"conflicts"`
}

// Blocking reports whether submission must stay disabled.
func (c ConflictCheck) Blocking() bool {
	return c.HasConflicts || len(c.Conflicts) > 0
}
