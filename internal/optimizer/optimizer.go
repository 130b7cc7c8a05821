// Package optimizer holds the core of pdfpress: the per-file
// optimization/repair state machine, the staged-replacement safety
// protocol and the aggregate statistics of a directory run.
package optimizer

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"pdfpress/internal/engine"
)

// Optimizer rewrites single PDF files in place through a staged temp
// file. It never commits a result larger than the original.
type Optimizer struct {
	fs     afero.Fs
	engine engine.Engine
	log    zerolog.Logger
}

// New returns an Optimizer operating on fs through eng.
func New(fs afero.Fs, eng engine.Engine, log zerolog.Logger) *Optimizer {
	return &Optimizer{fs: fs, engine: eng, log: log}
}

// replaceFile atomically moves src over dst. Some filesystems refuse
// to rename over an existing file; retry once with the target removed.
func (o *Optimizer) replaceFile(src, dst string) error {
	if err := o.fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := o.fs.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return o.fs.Rename(src, dst)
}
