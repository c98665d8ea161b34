package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laurent/pkg/logger"
)

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{name: "json post", method: http.MethodPost, body: `{}`, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "multipart upload", method: http.MethodPost, body: "--x--", contentType: "multipart/form-data; boundary=x", want: http.StatusOK},
		{name: "form post rejected", method: http.MethodPost, body: "a=b", contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "bodiless put", method: http.MethodPut, want: http.StatusOK},
		{name: "get ignores header", method: http.MethodGet, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, "/api/x", strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, "/api/x", nil)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
