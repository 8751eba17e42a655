package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrOffline indicates the catalog API could not be reached
	ErrOffline = errors.New("catalog server is unreachable")

	// ErrRemote indicates the catalog API answered with a non-success status
	ErrRemote = errors.New("catalog server rejected the request")

	// ErrBadResponse indicates the catalog API answered with a body that could not be decoded
	ErrBadResponse = errors.New("catalog server sent an unreadable response")

	// ErrProductNotFound indicates the requested product does not exist
	ErrProductNotFound = errors.New("product not found")
)

// RemoteError carries the status of a rejected catalog request
type RemoteError struct {
	StatusCode int
	Path       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("catalog request %s failed: status %d", e.Path, e.StatusCode)
}

// Is makes errors.Is match ErrRemote, and ErrProductNotFound for 404s
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrProductNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// UserMessage converts an error into a message suitable for display.
// It never returns an empty string for a non-nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	switch {
	case errors.Is(err, ErrOffline):
		return "No internet connection. Check your network and try again."
	case errors.Is(err, ErrBadResponse):
		return "The catalog server sent an unexpected response. Please try again later."
	case errors.Is(err, ErrProductNotFound):
		return "This product is no longer available."
	case errors.As(err, &remote):
		if remote.StatusCode >= 500 {
			return fmt.Sprintf("Server error (%d). Please try again later.", remote.StatusCode)
		}
		return fmt.Sprintf("Request failed (%d).", remote.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	}

	if msg := err.Error(); msg != "" {
		return "Something went wrong: " + msg
	}
	return "Something went wrong."
}
