package blockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"lifeweeks_bot/internal/domain/blocklist"

	"github.com/sirupsen/logrus"
)

// FileLedger persists blocked-user entries as one record per line:
//
//	<user_id>:<RFC3339 timestamp>
//
// All mutations run behind a single mutex and rewrite the whole file through
// a temp-file rename, so every write is atomic and observes the current
// persisted contents. Duplicate user ids collapse on load, last one wins.
type FileLedger struct {
	path   string
	mu     sync.Mutex
	logger *logrus.Entry
}

func NewFileLedger(path string, logger *logrus.Entry) *FileLedger {
	return &FileLedger{path: path, logger: logger}
}

// Load returns the persisted entries keyed by user id.
func (l *FileLedger) Load() (map[int64]blocklist.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

// Record inserts an entry for the user unless one already exists.
func (l *FileLedger) Record(userID int64, blockedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked()
	if err != nil {
		return err
	}
	if _, exists := entries[userID]; exists {
		return nil
	}
	entries[userID] = blocklist.Entry{UserID: userID, BlockedAt: blockedAt}
	return l.writeLocked(entries)
}

// Remove deletes the entry for the user, if present.
func (l *FileLedger) Remove(userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked()
	if err != nil {
		return err
	}
	if _, exists := entries[userID]; !exists {
		return nil
	}
	delete(entries, userID)
	return l.writeLocked(entries)
}

func (l *FileLedger) loadLocked() (map[int64]blocklist.Entry, error) {
	entries := make(map[int64]blocklist.Entry)

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("error reading ledger file %s: %w", l.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Timestamps contain colons, so split on the first one only.
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			l.logger.Warnf("Malformed ledger line skipped: %q", line)
			continue
		}
		userID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			l.logger.Warnf("Malformed user id in ledger line skipped: %q", line)
			continue
		}
		blockedAt, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			l.logger.Warnf("Malformed timestamp in ledger line skipped: %q", line)
			continue
		}
		entries[userID] = blocklist.Entry{UserID: userID, BlockedAt: blockedAt}
	}
	return entries, nil
}

func (l *FileLedger) writeLocked(entries map[int64]blocklist.Entry) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating ledger directory %s: %w", dir, err)
	}

	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		e := entries[id]
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteString(":")
		sb.WriteString(e.BlockedAt.Format(time.RFC3339))
		sb.WriteString("\n")
	}

	tmp, err := os.CreateTemp(dir, "blocked_users_*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing ledger file: %w", err)
	}
	return nil
}
