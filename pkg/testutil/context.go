package testutil

import (
	"net/http"
	"time"

	"fleetops/pkg/requestcontext"
)

// WithSubject marks the request as authenticated, as the auth middleware would.
func WithSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithSubject(req.Context(), subject))
}

// WithNow pins the request clock.
func WithNow(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
