// Package dedup tracks which event ids have already triggered a
// notification, with bounded retention.
//
// A store cannot distinguish "never seen" from "seen, but the retention
// window elapsed" — that is deliberate: bounded memory over perfect history.
package dedup

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps backend failures. Callers skip the notification for
// that record on the current cycle rather than crash or double-notify; the
// record stays eligible on the next cycle if the backend recovers.
var ErrUnavailable = errors.New("dedup store unavailable")

// Store records which event ids have already produced a notification.
type Store interface {
	// CheckAndMark atomically marks id as seen with the given retention and
	// reports whether this call was the first sighting. It returns false
	// for an id already marked within its retention window. Two concurrent
	// calls for the same id never both return true.
	CheckAndMark(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// Ping verifies the backend is reachable. Called once at startup;
	// failure there is fatal to the process.
	Ping(ctx context.Context) error

	Close() error
}
