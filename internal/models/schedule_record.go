package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SyncStatus classifies whether a schedule row is mirrored in SIS, HRMS or both.
type SyncStatus string

const (
	SyncStatusSynced     SyncStatus = "synced"
	SyncStatusHRMSOnly   SyncStatus = "hrms-only"
	SyncStatusSISOnly    SyncStatus = "sis-only"
	SyncStatusUnassigned SyncStatus = "unassigned"
)

// Valid reports whether the status is one of the known classifications.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusSynced, SyncStatusHRMSOnly, SyncStatusSISOnly, SyncStatusUnassigned:
		return true
	}
	return false
}

// SISID is the SIS-side schedule key. SIS emits it as either a JSON string or number.
type SISID string

// UnmarshalJSON accepts both quoted and bare numeric identifiers.
func (id *SISID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SISID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sis id: %w", err)
	}
	*id = SISID(n.String())
	return nil
}

func (id SISID) String() string { return string(id) }

// ScheduleDuration is the backend's duration exactly as sent, either a JSON string or a
// number. It is echoed back unchanged on mutations.
type ScheduleDuration struct {
	raw string
}

// DurationText builds a string-valued duration.
func DurationText(s string) ScheduleDuration {
	raw, _ := json.Marshal(s)
	return ScheduleDuration{raw: string(raw)}
}

// UnmarshalJSON accepts a string, a number or null.
func (d *ScheduleDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ScheduleDuration{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("duration: %w", err)
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("duration: %w", err)
		}
	}
	*d = ScheduleDuration{raw: string(data)}
	return nil
}

// MarshalJSON writes the original token back.
func (d ScheduleDuration) MarshalJSON() ([]byte, error) {
	if d.raw == "" {
		return []byte("null"), nil
	}
	return []byte(d.raw), nil
}

// IsZero reports whether the backend sent no duration.
func (d ScheduleDuration) IsZero() bool { return d.raw == "" }

func (d ScheduleDuration) String() string {
	if d.raw == "" {
		return ""
	}
	if d.raw[0] == '"' {
		var s string
		_ = json.Unmarshal([]byte(d.raw), &s)
		return s
	}
	return d.raw
}

// Leave describes an approved leave overlapping the schedule.
type Leave struct {
	LeaveID   int64  `json:"LeaveID"`
	LeaveType string `json:"LeaveType"`
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
	Reason    string `json:"Reason"`
}

// LeaveStatus is the server-computed leave overlay for the assigned faculty.
type LeaveStatus struct {
	IsOnLeave bool   `json:"isOnLeave"`
	Leave     *Leave `json:"leave"`
}

// ScheduleRecord is one row of the merged SIS/HRMS schedule view. The backend owns the shape;
// the console only reads it.
type ScheduleRecord struct {
	SISID          SISID  `json:"sisId"`
	HRMSScheduleID *int64 `json:"hrmsScheduleId"`

	SubjectID      *int64 `json:"subjectId"`
	SubjectName    string `json:"subjectName"`
	SubjectCode    string `json:"subjectCode"`
	ClassSectionID *int64 `json:"classSectionId"`
	SectionName    string `json:"sectionName"`

	Day      string           `json:"day"`
	Time     string           `json:"time"`
	Room     string           `json:"room"`
	Duration ScheduleDuration `json:"duration"`

	FacultyID   *int64 `json:"facultyId"`
	FacultyName string `json:"facultyName"`
	Instructor  string `json:"instructor"`
	IsAssigned  bool   `json:"isAssigned"`

	SyncStatus         SyncStatus   `json:"syncStatus"`
	FacultyLeaveStatus *LeaveStatus `json:"facultyLeaveStatus"`

	OriginalFacultyID     *int64 `json:"originalFacultyId"`
	OriginalFacultyName   string `json:"originalFacultyName"`
	ShouldRestoreOriginal bool   `json:"shouldRestoreOriginal"`
}

// Actionable reports whether the row is mirrored into HRMS enough to accept assignment actions.
func (r ScheduleRecord) Actionable() bool {
	return r.SubjectID != nil && r.ClassSectionID != nil
}

// OnLeave reports whether the currently seated faculty is on leave.
func (r ScheduleRecord) OnLeave() bool {
	return r.FacultyLeaveStatus != nil && r.FacultyLeaveStatus.IsOnLeave
}

// CurrentFacultyID returns the assigned faculty id or zero.
func (r ScheduleRecord) CurrentFacultyID() int64 {
	if r.FacultyID == nil {
		return 0
	}
	return *r.FacultyID
}

// DisplayFaculty picks the best label for the seated teacher.
func (r ScheduleRecord) DisplayFaculty() string {
	if name := strings.TrimSpace(r.FacultyName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Instructor)
}

// HRMSSchedule is the subset of an HRMS schedule read for the faculty load tally.
type HRMSSchedule struct {
	ScheduleID int64  `json:"id"`
	FacultyID  *int64 `json:"facultyId"`
}

// ScheduleListFilter narrows the in-memory schedule list.
type ScheduleListFilter struct {
	Search   string
	Status   string
	Action   string
	Page     int
	PageSize int
}
