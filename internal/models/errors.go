package models

import "errors"

// Error taxonomy shared by handlers and the chat gateway. Handlers map these
// to HTTP status codes; the gateway maps them to errorMessage events.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
)

// StatusCode returns the HTTP status for a taxonomy error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	case errors.Is(err, ErrPermissionDenied):
		return 403
	default:
		return 500
	}
}
