package services

// ValidationError is a user-correctable input error, optionally tied to a
// single field. Handlers surface these as 400s; everything else is treated
// as an internal failure.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func formError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
