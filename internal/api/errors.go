package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed classification of request failures. Callers switch on
// kinds instead of raw status codes; the mapping lives here and nowhere else.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Status int
	Detail string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Detail, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d (%s)", e.Op, e.Status, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies any error returned by the client. Non-client errors
// report KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if err != nil {
		return KindUnknown
	}
	return Kind(-1)
}

// kindFromResponse maps a failure response to a Kind. The backend reports
// duplicate cart/wishlist entries as 400 with an "already ..." detail, so
// those are promoted to KindConflict here at the boundary.
func kindFromResponse(status int, detail string) Kind {
	switch {
	case status == 400:
		if strings.Contains(strings.ToLower(detail), "already") {
			return KindConflict
		}
		return KindValidation
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
