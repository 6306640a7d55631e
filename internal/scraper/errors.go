package scraper

import "errors"

var (
	// ErrFetch indicates the page could not be retrieved.
	ErrFetch = errors.New("failed to fetch page")
	// ErrEmptyContent indicates the page yielded no readable content.
	ErrEmptyContent = errors.New("no meaningful content extracted")
)
