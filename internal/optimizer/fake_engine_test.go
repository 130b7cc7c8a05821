package optimizer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"pdfpress/internal/engine"
)

// fakeSpec scripts how the fake engine treats one path.
type fakeSpec struct {
	pages     int
	encrypted bool
	// failOpens makes the next n Open calls fail before opens start
	// succeeding again.
	failOpens int
	// saveErr fails every standard (non-incremental) save.
	saveErr error
	// fallbackSaveErr fails incremental saves.
	fallbackSaveErr error
	// badPages are page indexes whose copy always fails.
	badPages map[int]bool
	// savedSize is the byte size a successful save produces.
	savedSize int64
}

type fakeEngine struct {
	fs    afero.Fs
	specs map[string]*fakeSpec
	// perPageSize is the byte size each page contributes to a
	// reconstructed document's save.
	perPageSize int64
}

func newFakeEngine(fs afero.Fs) *fakeEngine {
	return &fakeEngine{fs: fs, specs: map[string]*fakeSpec{}, perPageSize: 100}
}

func (e *fakeEngine) add(path string, spec fakeSpec) *fakeSpec {
	s := spec
	e.specs[path] = &s
	return &s
}

func (e *fakeEngine) Open(path string) (engine.Document, error) {
	spec, ok := e.specs[path]
	if !ok {
		return nil, fmt.Errorf("fake: no such document %s", path)
	}
	if spec.failOpens > 0 {
		spec.failOpens--
		return nil, errors.New("fake: cannot find object in xref")
	}
	return &fakeDoc{eng: e, spec: spec}, nil
}

func (e *fakeEngine) NewEmpty() (engine.Document, error) {
	return &fakeDoc{eng: e, rebuilt: true}, nil
}

type fakeDoc struct {
	eng     *fakeEngine
	spec    *fakeSpec
	rebuilt bool
	pages   int
	closed  bool
}

func (d *fakeDoc) IsEncrypted() bool {
	return d.spec != nil && d.spec.encrypted
}

func (d *fakeDoc) PageCount() int {
	if d.rebuilt {
		return d.pages
	}
	return d.spec.pages
}

func (d *fakeDoc) Save(path string, opts engine.SaveOptions) error {
	if d.closed {
		return errors.New("fake: document is closed")
	}
	if d.rebuilt {
		size := int64(d.pages) * d.eng.perPageSize
		return afero.WriteFile(d.eng.fs, path, bytes.Repeat([]byte{'r'}, int(size)), 0o644)
	}
	if opts.Incremental {
		if d.spec.fallbackSaveErr != nil {
			return d.spec.fallbackSaveErr
		}
	} else if d.spec.saveErr != nil {
		return d.spec.saveErr
	}
	return afero.WriteFile(d.eng.fs, path, bytes.Repeat([]byte{'s'}, int(d.spec.savedSize)), 0o644)
}

func (d *fakeDoc) InsertPages(from engine.Document, fromPage, toPage int) error {
	if !d.rebuilt {
		return errors.New("fake: insert into non-empty document")
	}
	src, ok := from.(*fakeDoc)
	if !ok || src.spec == nil {
		return errors.New("fake: foreign source document")
	}
	for i := fromPage; i <= toPage; i++ {
		if src.spec.badPages[i] {
			return fmt.Errorf("fake: page %d is damaged", i)
		}
	}
	d.pages += toPage - fromPage + 1
	return nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}
