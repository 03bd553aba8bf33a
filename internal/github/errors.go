package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an upstream failure.
type Kind int

const (
	KindUpstream Kind = iota
	KindNotFound
	KindRateLimited
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "upstream"
}

// Sentinels matched by errors.Is against an *APIError.
var (
	ErrNotFound     = errors.New("github: not found")
	ErrRateLimited  = errors.New("github: rate limited")
	ErrUnauthorized = errors.New("github: unauthorized")
	ErrUpstream     = errors.New("github: upstream error")
)

// APIError is returned for every failed upstream call. Status is zero when
// no response was received (timeout, connection failure).
type APIError struct {
	Kind   Kind
	Status int
	Login  string
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("github: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("github: %s: status %d", e.Kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

// Message is the human-readable text returned to API callers.
func (e *APIError) Message() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("User %q not found on GitHub", e.Login)
	case KindRateLimited:
		return "GitHub rate limit reached. Try again later."
	case KindUnauthorized:
		return "GitHub authentication error."
	}
	if e.Status == 0 {
		return "GitHub API unreachable"
	}
	return fmt.Sprintf("GitHub API error: %d", e.Status)
}

// HTTPStatus is the status a JSON endpoint answers with: the classified
// status, the upstream's own status, or 502 when nothing came back.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	}
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func classify(status int, login, body string) *APIError {
	e := &APIError{Status: status, Login: login, Body: body}
	switch status {
	case http.StatusNotFound:
		e.Kind = KindNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	default:
		e.Kind = KindUpstream
	}
	return e
}

// AsAPIError extracts an *APIError, wrapping anything else as an upstream error.
func AsAPIError(err error, login string) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindUpstream, Login: login, Err: err}
}
