package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who can act on it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	}
	return "internal"
}

const (
	MsgInternal   = "An internal error occurred."
	MsgPermission = "You need Administrator permissions to use this command."
)

// Error carries a user-facing message alongside the internal cause.
type Error struct {
	Kind        Kind
	UserMessage string // Shown to the invoking user
	LogMessage  string // Server-side only
	Err         error
}

func (e *Error) Error() string {
	msg := e.LogMessage
	if msg == "" {
		msg = e.UserMessage
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation is for malformed user input.
func Validation(userMessage string) *Error {
	return &Error{Kind: KindValidation, UserMessage: userMessage, LogMessage: userMessage}
}

// Permission is for callers or the bot lacking rights on the platform.
func Permission(userMessage string, err error) *Error {
	if userMessage == "" {
		userMessage = MsgPermission
	}
	return &Error{Kind: KindPermission, UserMessage: userMessage, LogMessage: "permission denied", Err: err}
}

// Internal wraps an unexpected failure. userMessage may be empty for the generic text.
func Internal(err error, logMessage, userMessage string) *Error {
	if userMessage == "" {
		userMessage = MsgInternal
	}
	return &Error{Kind: KindInternal, UserMessage: userMessage, LogMessage: logMessage, Err: err}
}

// KindOf returns the kind of err, treating anything unclassified as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage maps err to the text the invoking user should see. Unclassified
// errors never leak their details.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.UserMessage != "" {
		return e.UserMessage
	}
	return MsgInternal
}
