package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "laurent/pkg/errors"
)

// DecodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.TooLarge("Request body too large")
	}
	return apperrors.InvalidInput("Invalid JSON body")
}

// QueryParam returns the trimmed query value for key, or "" when absent.
func QueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
