package models

import "time"

// NoticeLevel mirrors toast severities.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a user-facing outcome message; the sole feedback channel for schedule actions.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewNotice stamps a notice with the current time.
func NewNotice(level NoticeLevel, message string) Notice {
	return Notice{Level: level, Message: message, CreatedAt: time.Now().UTC()}
}
