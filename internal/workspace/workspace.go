// Package workspace provisions the scratch directories one update run
// clones into, and guarantees their removal on every exit path.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/victorebouvie/portfoliosync/internal/utils"
)

const (
	// removal of .git object files can transiently fail right after a
	// clone is closed; retried a bounded number of times
	maxRemoveRetries  = 5
	removeRetryDelay  = 100 * time.Millisecond
	scratchDirPattern = "portfoliosync-*"
)

// Workspace is a process-private scratch directory tree. All paths handed
// out by Dir live under one root so a single removal releases everything.
type Workspace struct {
	root   string
	logger *utils.Logger

	// remove is os.RemoveAll; tests substitute it to force removal failures
	remove func(string) error
}

// New creates a fresh scratch workspace.
func New(logger *utils.Logger) (*Workspace, error) {
	root, err := os.MkdirTemp("", scratchDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch workspace: %w", err)
	}

	if logger != nil {
		logger.Debug().Str("path", root).Msg("Scratch workspace created")
	}

	return &Workspace{root: root, logger: logger, remove: os.RemoveAll}, nil
}

// Root returns the workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// Dir provisions a named subdirectory inside the workspace.
func (w *Workspace) Dir(name string) (string, error) {
	path := filepath.Join(w.root, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create workspace dir %s: %w", name, err)
	}
	return path, nil
}

// Close removes the workspace. A first removal failure is retried after
// clearing restrictive permission bits (git writes read-only object
// files); after bounded retries the failure is logged as a warning and
// swallowed so cleanup never masks the run's real outcome.
func (w *Workspace) Close() {
	if w.root == "" {
		return
	}

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(removeRetryDelay), maxRemoveRetries)
	err := backoff.Retry(func() error {
		if err := w.remove(w.root); err != nil {
			clearRestrictivePerms(w.root)
			return err
		}
		return nil
	}, b)

	if err != nil {
		if w.logger != nil {
			w.logger.Warn().
				Err(err).
				Str("path", w.root).
				Msg("Failed to remove scratch workspace")
		}
		return
	}

	if w.logger != nil {
		w.logger.Debug().Str("path", w.root).Msg("Scratch workspace removed")
	}
	w.root = ""
}

// clearRestrictivePerms makes every entry under root writable so a
// subsequent RemoveAll can succeed. Errors are ignored; the retry loop
// surfaces the final outcome.
func clearRestrictivePerms(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = os.Chmod(path, 0755)
		} else {
			_ = os.Chmod(path, 0644)
		}
		return nil
	})
}
