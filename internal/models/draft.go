package models

import "time"

// ActionDraft is an open action modal for one schedule row.
type ActionDraft struct {
	ID                  string           `json:"id"`
	Session             string           `json:"session"`
	Action              RowActionKind    `json:"action"`
	Row                 ScheduleRecord   `json:"row"`
	SelectedFacultyID   int64            `json:"selectedFacultyId,omitempty"`
	CheckingConflicts   bool             `json:"checkingConflicts"`
	// ConflictCheckFailed is set when the last check for the selection got no answer.
	ConflictCheckFailed bool             `json:"conflictCheckFailed"`
	Conflicts           []ConflictResult `json:"conflicts"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// SubmitState explains whether the draft can be submitted right now.
type SubmitState struct {
	CanSubmit bool   `json:"canSubmit"`
	Reason    string `json:"reason,omitempty"`
}

// Evaluate computes the submit gate from the draft as stored. Conflicts are a hard gate.
func (d ActionDraft) Evaluate() SubmitState {
	if !d.Row.Actionable() {
		return SubmitState{Reason: "subject or section not yet synced into HRMS"}
	}
	if !d.Action.NeedsFaculty() {
		if d.Row.OriginalFacultyID == nil {
			return SubmitState{Reason: "original teacher unknown"}
		}
		if d.Row.HRMSScheduleID == nil {
			return SubmitState{Reason: "schedule not yet mirrored in HRMS"}
		}
		return SubmitState{CanSubmit: true}
	}
	if d.SelectedFacultyID == 0 {
		return SubmitState{Reason: "select a faculty member"}
	}
	if d.CheckingConflicts {
		return SubmitState{Reason: "checking conflicts"}
	}
	if d.ConflictCheckFailed {
		return SubmitState{Reason: "conflict check failed; select the faculty again"}
	}
	if len(d.Conflicts) > 0 {
		return SubmitState{Reason: "resolve schedule conflicts first"}
	}
	if d.Action != RowActionAssign && d.SelectedFacultyID == d.Row.CurrentFacultyID() {
		return SubmitState{Reason: "selected faculty is already assigned"}
	}
	return SubmitState{CanSubmit: true}
}

// DraftView is the presentation of a draft with its submit gate.
type DraftView struct {
	ActionDraft
	Submit SubmitState `json:"submit"`
}
