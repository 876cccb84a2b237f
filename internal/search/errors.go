package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned for a blank query, before any request is made.
	ErrEmptyQuery = errors.New("search query is required")

	// ErrMissingAPIKey is returned when no Freepik API key is configured.
	ErrMissingAPIKey = errors.New("freepik api key is not configured")

	// ErrGateway reports a failed upstream call: a non-2xx status or a transport failure.
	ErrGateway = errors.New("image search failed")
)

// GatewayError describes a failed upstream call. Status is the upstream HTTP status, or 0
// when the request never got a response.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrGateway, e.Err)
		}
		return fmt.Sprintf("%s: %s", ErrGateway, e.Message)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", ErrGateway, e.Status, e.Message)
}

// Is reports whether target is ErrGateway.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

func (e *GatewayError) Unwrap() error { return e.Err }
