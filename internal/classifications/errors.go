package classifications

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no classification exists for the requested id.
	ErrNotFound = errors.New("classification not found")
	// ErrClassification indicates a pipeline stage failed. The row persists
	// in failed status with steps for the stages that ran.
	ErrClassification = errors.New("classification failed")
	// ErrInvalidURL indicates the submitted URL is empty or unparseable.
	ErrInvalidURL = errors.New("a valid http or https url is required")
	// ErrInvalidBody indicates the request body could not be decoded.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrInvalidID indicates the id path parameter is not a valid UUID.
	ErrInvalidID = errors.New("invalid classification id")
	// ErrNoArchive indicates no raw page was archived for the classification,
	// either because archival is disabled or the blob is gone.
	ErrNoArchive = errors.New("no archived page for classification")
)

// MapHTTPStatus translates domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNoArchive):
		return http.StatusNotFound
	case errors.Is(err, ErrClassification),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
