package middleware

import (
	"errors"
	"net/http"

	authgate "github.com/testware-io/authgate"
)

// ProjectIDExtractor pulls the raw project identifier out of a request,
// typically from a route parameter or query string.
type ProjectIDExtractor func(r *http.Request) string

// ProjectGuard denies project-scoped routes to subjects without a grant
// path. Denials and genuinely missing projects share the same 404; a
// malformed identifier is a 400 before any resolution runs; a request
// with no authenticated subject is a 401.
func ProjectGuard(engine *authgate.Engine, extract ProjectIDExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := authgate.SubjectFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			projectID, err := authgate.ParseProjectID(extract(r))
			if err != nil {
				http.Error(w, "invalid project id", http.StatusBadRequest)
				return
			}

			if err := engine.RequireProjectAccess(r.Context(), subject, projectID); err != nil {
				if errors.Is(err, authgate.ErrProjectNotFound) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
