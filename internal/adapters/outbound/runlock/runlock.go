// Package runlock serializes batch runs over a project with a file lock
// under .mend/, and provides atomic file replacement for accepted fixes.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = "fix.lock"

// Lock implements domain.RunLocker with a non-blocking flock on
// .mend/fix.lock.
type Lock struct {
	fl *flock.Flock
}

func New() *Lock {
	return &Lock{}
}

// TryLock acquires the project run lock without blocking. It returns false
// when another batch process holds the lock.
func (l *Lock) TryLock(projectPath string) (bool, error) {
	dir := filepath.Join(projectPath, ".mend")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, lockFile)
	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	if acquired {
		l.fl = fl
	}
	return acquired, nil
}

func (l *Lock) Unlock() error {
	if l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("releasing lock %s: %w", l.fl.Path(), err)
	}
	l.fl = nil
	return nil
}

// Writer implements domain.FileWriter with AtomicWrite.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

func (Writer) WriteFile(path string, data []byte, perm os.FileMode) error {
	return AtomicWrite(path, data, perm)
}

// AtomicWrite replaces path's content via a same-directory temp file and
// rename, so readers never observe a partial fix.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mend-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
