package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure an API call can surface. Callers branch
// on the kind: authentication failures redirect to login, conflicts mean the
// slot was taken between fetch and submit, validation failures never reached
// the network. Nothing is retried automatically.
type ErrorKind int

const (
	NetworkFailure ErrorKind = iota
	AuthenticationFailure
	ConflictFailure
	ValidationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case AuthenticationFailure:
		return "authentication failure"
	case ConflictFailure:
		return "conflict"
	case ValidationFailure:
		return "validation failure"
	}
	return "unknown failure"
}

type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func IsAuthenticationFailure(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == AuthenticationFailure
}

func IsConflictFailure(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == ConflictFailure
}
