package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// New returns the pdfcpu-backed engine.
func New() Engine {
	return &pdfcpuEngine{}
}

type pdfcpuEngine struct{}

type document struct {
	path      string
	pages     int
	encrypted bool
	scratch   bool
	closed    bool
}

func (e *pdfcpuEngine) Open(path string) (Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		if isPasswordError(err) {
			// The file parses far enough to know it is password
			// protected; surface that as an open handle so callers
			// can classify it instead of treating it as damaged.
			return &document{path: path, encrypted: true}, nil
		}
		return nil, err
	}
	return &document{path: path, pages: ctx.PageCount}, nil
}

func (e *pdfcpuEngine) NewEmpty() (Document, error) {
	return &document{scratch: true}, nil
}

func (d *document) IsEncrypted() bool {
	return d.encrypted
}

func (d *document) PageCount() int {
	return d.pages
}

func (d *document) Save(path string, opts SaveOptions) error {
	if d.closed {
		return errors.New("engine: document is closed")
	}
	if d.encrypted {
		return errors.New("engine: cannot save encrypted document")
	}
	if d.path == "" {
		return errors.New("engine: document has no pages")
	}
	if opts.Incremental {
		// pdfcpu has no incremental writer. The conservative save
		// validates the current bytes and copies them through without
		// restructuring, which tolerates damage a full rewrite trips
		// over. The output is byte-identical to the input, so this path
		// never produces a smaller file.
		if err := api.ValidateFile(d.path, configFor(opts)); err != nil {
			return err
		}
		return copyFile(d.path, path)
	}
	return api.OptimizeFile(d.path, path, configFor(opts))
}

func (d *document) InsertPages(from Document, fromPage, toPage int) error {
	if d.closed {
		return errors.New("engine: document is closed")
	}
	src, ok := from.(*document)
	if !ok {
		return errors.New("engine: source document belongs to another engine")
	}
	if fromPage < 0 || toPage < fromPage {
		return fmt.Errorf("engine: invalid page range %d..%d", fromPage, toPage)
	}

	// pdfcpu page selections are 1-based.
	sel := []string{fmt.Sprintf("%d-%d", fromPage+1, toPage+1)}

	if d.path == "" {
		p, err := scratchPath()
		if err != nil {
			return err
		}
		if err := api.CollectFile(src.path, p, sel, relaxedConfig()); err != nil {
			os.Remove(p)
			return err
		}
		d.path = p
	} else {
		part, err := scratchPath()
		if err != nil {
			return err
		}
		defer os.Remove(part)
		if err := api.CollectFile(src.path, part, sel, relaxedConfig()); err != nil {
			return err
		}
		if err := api.MergeAppendFile([]string{part}, d.path, false, relaxedConfig()); err != nil {
			return err
		}
	}
	d.pages += toPage - fromPage + 1
	return nil
}

func (d *document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.scratch && d.path != "" {
		return os.Remove(d.path)
	}
	return nil
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func configFor(opts SaveOptions) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	// Relaxed is the lenient mode pdfcpu offers; damaged input must
	// still be writable regardless of Clean.
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = opts.Deflate
	conf.WriteXRefStream = opts.Deflate
	conf.OptimizeDuplicateContentStreams = opts.GarbageLevel >= 3
	return conf
}

// isPasswordError matches on the error text because pdfcpu reports
// missing/wrong passwords through plain errors rather than a sentinel
// we could errors.Is against.
func isPasswordError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "password")
}

func scratchPath() (string, error) {
	f, err := os.CreateTemp("", "pdfpress-engine-*.pdf")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	// pdfcpu creates its output file itself.
	os.Remove(name)
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
