package optimizer

import (
	"errors"
	"fmt"

	"pdfpress/internal/engine"
)

var errNoPagesRecovered = errors.New("no pages could be recovered")

// rebuildSaveOptions writes reconstructed documents conservatively:
// the point of a rebuild is survival, not compression.
var rebuildSaveOptions = engine.SaveOptions{GarbageLevel: 1, Deflate: true}

// repair produces a usable document for path, escalating through
// increasingly destructive strategies. On success the file at path has
// been replaced by its reconstruction and a fresh handle on it is
// returned. Returns an error once every strategy is exhausted; the
// caller decides whether that is fatal.
func (o *Optimizer) repair(path string) (engine.Document, error) {
	// Strategy 1: the file may open fine after all.
	if doc, err := o.engine.Open(path); err == nil {
		if doc.PageCount() >= 1 {
			return doc, nil
		}
		_ = doc.Close()
	}

	tmp := newTempFile(o.fs, path)
	defer tmp.cleanup()

	pages, err := o.rebuild(path, tmp.path)
	if err != nil {
		return nil, fmt.Errorf("rebuild of %s: %w", path, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("rebuild of %s: %w", path, errNoPagesRecovered)
	}

	if err := o.replaceFile(tmp.path, path); err != nil {
		return nil, fmt.Errorf("replace %s with reconstruction: %w", path, err)
	}
	tmp.commit()

	o.log.Info().Str("path", path).Int("pages", pages).Msg("rebuilt damaged pdf")
	return o.engine.Open(path)
}

// rebuild copies the pages of srcPath into a fresh document written to
// destPath. It first attempts a whole-document copy; if that fails it
// falls back to copying page by page, skipping pages that refuse to
// copy. Returns the number of pages that survived.
func (o *Optimizer) rebuild(srcPath, destPath string) (pages int, err error) {
	src, err := o.engine.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	// Closed in all cases before returning.
	defer src.Close()

	dst, err := o.engine.NewEmpty()
	if err != nil {
		return 0, fmt.Errorf("create empty document: %w", err)
	}
	defer dst.Close()

	total := src.PageCount()
	if total == 0 {
		return 0, errNoPagesRecovered
	}

	if err := dst.InsertPages(src, 0, total-1); err == nil {
		pages = total
	} else {
		for i := 0; i < total; i++ {
			if err := dst.InsertPages(src, i, i); err != nil {
				o.log.Warn().Str("path", srcPath).Int("page", i).Err(err).
					Msg("skipping unrecoverable page")
				continue
			}
			pages++
		}
	}
	if pages == 0 {
		return 0, errNoPagesRecovered
	}

	if err := dst.Save(destPath, rebuildSaveOptions); err != nil {
		return 0, fmt.Errorf("save reconstruction: %w", err)
	}
	return pages, nil
}
