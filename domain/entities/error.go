package entities

import "fmt"

// ErrorDetail is the structured form of a host failure, attached to
// JSON log records by the command-line host.
// Types: "load", "open", "compatibility", "hook", "panic", "lifecycle", "config", "internal".
type ErrorDetail struct {
	// Wrapped is the detail of the underlying cause, if it has one.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Details carries the module and hook involved, or a failure count.
	Details map[string]any `json:"details,omitempty"`

	Message string `json:"message"`
	Type    string `json:"type"`

	// Code is the load class, hook status or lifecycle phase.
	Code string `json:"code"`

	// Stack is captured when a module faulted outside Instance.Abort.
	Stack []byte `json:"stack,omitempty"`

	// IsNotFound marks a library or directory that could not be opened.
	IsNotFound bool `json:"is_not_found,omitempty"`
}

func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}
