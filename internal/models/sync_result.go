package models

// CreatedDeleted counts records created and deleted by a sync.
type CreatedDeleted struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

// SubjectSectionSyncResult is returned by the subjects/sections sync endpoint.
type SubjectSectionSyncResult struct {
	Results struct {
		Subjects CreatedDeleted `json:"subjects"`
		Sections CreatedDeleted `json:"sections"`
	} `json:"results"`
}

// SyncSummary aggregates an existing-assignment sync.
type SyncSummary struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// ExistingAssignmentSyncResult is returned by the sync-existing endpoint.
type ExistingAssignmentSyncResult struct {
	Success bool        `json:"success"`
	Summary SyncSummary `json:"summary"`
}
