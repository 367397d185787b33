package database

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Retryer re-runs an operation a bounded number of times when it fails with
// a transient connection error. It lives at the repository boundary so the
// pure composition code never has to know the catalog can be flaky.
type Retryer struct {
	Attempts int
	Backoff  time.Duration
	Logger   *logrus.Logger
}

// Do runs op, retrying on transient errors with a fixed backoff between
// attempts. Non-transient errors are returned immediately.
func (r Retryer) Do(op func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt < attempts {
			if r.Logger != nil {
				r.Logger.WithError(err).WithField("attempt", attempt).
					Warn("Transient database error, retrying")
			}
			time.Sleep(r.Backoff)
		}
	}
	return err
}

// isTransient reports whether the error looks like a dropped or stale
// connection rather than a query problem.
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected EOF")
}
