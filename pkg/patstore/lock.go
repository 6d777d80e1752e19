package patstore

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Lock acquisition tuning. Retries cover the common case of two tally
// invocations racing briefly; anything longer means a stale or stuck holder.
const (
	lockRetries = 10
	lockBackoff = 50 * time.Millisecond
)

// ErrLocked is returned when the advisory lock is held by a live process
// after all retries.
var ErrLocked = errors.New("document locked by another process")

// docLock is a held advisory lock on one document.
type docLock struct {
	path string
}

// acquireLock takes the advisory lock for a document by creating
// <name>.lock with O_EXCL, writing the holder PID. A lock whose PID is no
// longer alive is considered stale and broken.
func (s *Store) acquireLock(name string) (*docLock, error) {
	path := s.Path(name + ".lock")

	for attempt := 0; attempt < lockRetries; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // lock path is store-dir + doc name
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("write lock %s: %w", path, errors.Join(werr, cerr))
			}
			return &docLock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock %s: %w", path, err)
		}

		// Lock exists. Break it if the holder is dead.
		if holderDead(path) {
			_ = os.Remove(path)
			continue
		}
		time.Sleep(lockBackoff)
	}

	return nil, fmt.Errorf("acquire lock %s: %w", path, ErrLocked)
}

// release removes the lock file. Idempotent.
func (l *docLock) release() {
	_ = os.Remove(l.path)
}

// holderDead reports whether the lock file names a process that no longer
// exists. An unreadable or malformed lock file counts as dead.
func holderDead(path string) bool {
	data, err := os.ReadFile(path) //nolint:gosec // lock path is store-controlled
	if err != nil {
		// Racing remove by another process; treat as gone.
		return errors.Is(err, os.ErrNotExist)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return true
	}
	return !processAlive(pid)
}

// processAlive checks process existence with signal 0, the same liveness
// probe used for daemon PID files.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}
