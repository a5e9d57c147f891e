package core

import "errors"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is the blocking alert a handler raises
type Notification struct {
	Level   Level     `json:"level"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

func successNotification(title, message string) *Notification {
	return &Notification{Level: LevelSuccess, Title: title, Message: message}
}

func infoNotification(title, message string) *Notification {
	return &Notification{Level: LevelInfo, Title: title, Message: message}
}

// errorNotification converts err into an alert; errors other than
// IntakeError are shown with a generic title.
func errorNotification(err error) *Notification {
	var intakeErr *IntakeError
	if errors.As(err, &intakeErr) {
		return &Notification{
			Level:   LevelError,
			Kind:    intakeErr.Kind,
			Title:   intakeErr.Title,
			Message: intakeErr.Message,
		}
	}
	return &Notification{Level: LevelError, Title: "Error", Message: err.Error()}
}
