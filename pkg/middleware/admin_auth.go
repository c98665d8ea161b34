package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	apperrors "laurent/pkg/errors"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const bearerPrefix = "Bearer "

// AdminAuth guards admin routes with a static bearer token. A missing or
// malformed header is 401; a wrong token is 403.
type AdminAuth struct {
	token string
	log   *logger.Logger
}

func NewAdminAuth(token string, log *logger.Logger) *AdminAuth {
	return &AdminAuth{token: token, log: log}
}

func (a *AdminAuth) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := a.check(r); err != nil {
			a.log.Warn("Admin request rejected",
				"request_id", RequestID(r),
				"path", r.URL.Path,
				"code", err.Code,
			)
			_ = httputil.WriteError(w, err)
			return
		}
		next(w, r, ps)
	}
}

func (a *AdminAuth) check(r *http.Request) *apperrors.AppError {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return apperrors.Unauthorized("Authentication required")
	}

	token := strings.TrimPrefix(header, bearerPrefix)
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}
