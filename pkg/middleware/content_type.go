package middleware

import (
	"mime"
	"net/http"
	"strings"

	apperrors "laurent/pkg/errors"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// ContentTypeValidation accepts JSON bodies everywhere and multipart bodies
// for uploads. Bodiless writes pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != ContentTypeJSON && contentType != ContentTypeMultipart {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestID(r),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					_ = httputil.WriteJSON(w, http.StatusUnsupportedMediaType, apperrors.ErrorResponse{
						Error: "Content-Type must be application/json or multipart/form-data",
						Code:  apperrors.CodeInvalidInput,
					})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.TrimSpace(strings.Split(header, ";")[0])
	}
	return mediaType
}

// MaxRequestSize caps JSON bodies. Multipart uploads are bounded by the
// upload handler's own limit.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && extractContentType(r.Header.Get("Content-Type")) != ContentTypeMultipart {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
