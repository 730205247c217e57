package middleware

import (
	"bytes"
	"net/http"
	"strings"

	authgate "github.com/testware-io/authgate"
	"github.com/testware-io/authgate/auditlog"
)

// maxCapturedBody bounds the response copy kept for classification.
// Gateway mutation responses are small; anything bigger cannot carry the
// data envelope shape the classifier reads anyway.
const maxCapturedBody = 1 << 20

type auditRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *auditRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *auditRecorder) Write(p []byte) (int, error) {
	if r.body.Len() < maxCapturedBody {
		room := maxCapturedBody - r.body.Len()
		if len(p) <= room {
			r.body.Write(p)
		} else {
			r.body.Write(p[:room])
		}
	}
	return r.ResponseWriter.Write(p)
}

// Audit wraps the CRUD gateway handler mounted at prefix. Every response
// is mirrored into the classifier after it has been sent; the observed
// request can neither slow down nor fail the mutation it describes.
func Audit(engine *authgate.Engine, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &auditRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			engine.ObserveMutation(r.Context(), auditlog.Request{
				Method: r.Method,
				Path:   strings.TrimPrefix(r.URL.Path, prefix),
				Status: recorder.status,
				Body:   recorder.body.Bytes(),
			})
		})
	}
}
