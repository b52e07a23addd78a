package http

import (
	"encoding/json"
	"net/http"
)

// PaginatedResponse wraps paginated data with metadata
type PaginatedResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination PaginationMetadata `json:"pagination"`
}

// PaginationMetadata contains pagination information
type PaginationMetadata struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The header has already been sent; nothing useful to do.
		return
	}
}

// WriteCreated writes a created response
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WritePaginated writes a paginated response. hasMore is derived from the
// page being full, so the repository is never asked for a total count.
func WritePaginated[T any](w http.ResponseWriter, data []T, limit, offset int) {
	response := PaginatedResponse[T]{
		Data: data,
		Pagination: PaginationMetadata{
			Limit:   limit,
			Offset:  offset,
			HasMore: len(data) == limit,
		},
	}

	WriteJSON(w, http.StatusOK, response)
}
