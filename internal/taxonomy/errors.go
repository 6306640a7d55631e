package taxonomy

import (
	"errors"
	"net/http"
)

// Domain errors for taxonomy operations.
var (
	ErrGroupNotFound    = errors.New("governance group not found")
	ErrNodeNotFound     = errors.New("taxonomy node not found")
	ErrParentNotFound   = errors.New("parent node not found")
	ErrDuplicateGroup   = errors.New("governance group slug already exists")
	ErrDuplicateSlug    = errors.New("sibling with the same slug already exists")
	ErrGroupHasNodes    = errors.New("cannot delete group with existing nodes")
	ErrHasChildren      = errors.New("cannot delete node with children")
	ErrBranchMismatch   = errors.New("node branch must match parent branch")
	ErrBranchNotCovered = errors.New("governance group does not cover this branch")
	ErrInvalidBranch    = errors.New("branch must be software or hardware")
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidID        = errors.New("invalid identifier")
	ErrInvalidBody      = errors.New("invalid request body")
	ErrSearchTermShort  = errors.New("search term is required")
)

// MapHTTPStatus maps taxonomy domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateGroup),
		errors.Is(err, ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, ErrParentNotFound),
		errors.Is(err, ErrGroupHasNodes),
		errors.Is(err, ErrHasChildren),
		errors.Is(err, ErrBranchMismatch),
		errors.Is(err, ErrBranchNotCovered),
		errors.Is(err, ErrInvalidBranch),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrSearchTermShort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
