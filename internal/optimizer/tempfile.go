package optimizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// tempPrefix is the reserved marker for staged files. Directory
// enumeration must never treat a matching name as input, so re-running
// the tool over its own leftovers is safe.
const tempPrefix = ".pdfpress-tmp-"

var tempSeq atomic.Uint64

// IsTempName reports whether path carries the reserved staging prefix.
func IsTempName(path string) bool {
	return strings.HasPrefix(filepath.Base(path), tempPrefix)
}

// tempFile stages a rewrite next to its target. Cleanup is idempotent
// and runs on every exit path; commit marks the file as renamed away.
type tempFile struct {
	fs   afero.Fs
	path string
	done bool
}

// newTempFile reserves a staging path in the target's directory. The
// name embeds the pid and a time-based nonce so concurrent workers and
// concurrent runs never collide.
func newTempFile(fs afero.Fs, target string) *tempFile {
	name := fmt.Sprintf("%s%s.%d.%d.%d.pdf",
		tempPrefix,
		filepath.Base(target),
		os.Getpid(),
		time.Now().UnixNano(),
		tempSeq.Add(1),
	)
	return &tempFile{
		fs:   fs,
		path: filepath.Join(filepath.Dir(target), name),
	}
}

// commit hands ownership of the staged file to the caller; cleanup
// becomes a no-op.
func (t *tempFile) commit() {
	t.done = true
}

// cleanup removes the staged file if it still exists. Safe to defer
// unconditionally.
func (t *tempFile) cleanup() {
	if t.done {
		return
	}
	t.done = true
	// Best effort; removal failure must not mask the outcome already
	// determined by the caller.
	_ = t.fs.Remove(t.path)
}

// exists reports whether the staged file is on disk.
func (t *tempFile) exists() (bool, error) {
	return afero.Exists(t.fs, t.path)
}

// size returns the staged file's byte size.
func (t *tempFile) size() (int64, error) {
	info, err := t.fs.Stat(t.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
