package pagination

import (
	"net/url"
	"strconv"
)

// Request represents a client request for a window of data.
type Request struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize adjusts the request to ensure valid windowing values based on the config.
func (r *Request) Normalize(cfg Config) {
	if r.Limit < 1 {
		r.Limit = cfg.DefaultLimit
	}
	if r.Limit > cfg.MaxLimit {
		r.Limit = cfg.MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// FromQuery parses windowing parameters from URL query values.
// Supported parameters: limit, offset.
func FromQuery(values url.Values, cfg Config) Request {
	limit, _ := strconv.Atoi(values.Get("limit"))
	offset, _ := strconv.Atoi(values.Get("offset"))

	req := Request{
		Limit:  limit,
		Offset: offset,
	}

	req.Normalize(cfg)
	return req
}

// Result holds a window of data along with windowing metadata.
type Result[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewResult creates a Result, normalizing nil data to an empty slice.
func NewResult[T any](data []T, total, limit, offset int) Result[T] {
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
