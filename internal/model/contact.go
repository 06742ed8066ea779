package model

import "errors"

// ContactRequest is the parsed contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ErrContactFieldsRequired is returned when any contact form field is blank.
var ErrContactFieldsRequired = errors.New("all fields are required")
