package blocklist

import "time"

// Entry records the first observed delivery failure for a user who revoked
// the bot's permission to message them. The entry can outlive the user record.
type Entry struct {
	UserID    int64
	BlockedAt time.Time
}

// Ledger is the durable record of users currently believed unreachable.
// Implementations must serialize all mutations behind a single logical owner:
// each call observes the current persisted contents, never an in-memory
// snapshot taken earlier, so concurrent writers cannot clobber each other.
type Ledger interface {
	// Load returns the persisted entries keyed by user id.
	Load() (map[int64]Entry, error)
	// Record inserts an entry for the user unless one already exists.
	Record(userID int64, blockedAt time.Time) error
	// Remove deletes the entry for the user, if present.
	Remove(userID int64) error
}
