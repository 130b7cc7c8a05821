package optimizer

import (
	"errors"
	"fmt"
)

// OptimizeFile runs the optimization state machine for one file. Every
// failure is converted into the returned Outcome; no error escapes as
// such. The file at path is either left byte-identical or replaced by
// a strictly smaller rewrite, never left partially written.
func (o *Optimizer) OptimizeFile(path string, params Params, repairMode bool) Outcome {
	out := Outcome{Path: path}

	info, err := o.fs.Stat(path)
	if err != nil {
		return out.failed(ErrInaccessible, err)
	}
	// Baseline regardless of what happens next.
	out.OriginalSize = info.Size()
	out.NewSize = info.Size()

	tmp := newTempFile(o.fs, path)
	defer tmp.cleanup()

	doc, err := o.engine.Open(path)
	if err != nil {
		if !repairMode {
			return out.failed(ErrOpenFailure, err)
		}
		o.log.Warn().Str("path", path).Err(err).
			Msg("direct open failed, attempting repair")
		doc, err = o.repair(path)
		if err != nil {
			return out.failed(ErrRepairFailure, err)
		}
		out.Repaired = true
	}

	if doc.IsEncrypted() {
		_ = doc.Close()
		return out.failed(ErrEncrypted, errors.New("pdf is password protected"))
	}

	if err := doc.Save(tmp.path, params.saveOptions()); err != nil {
		if !repairMode {
			_ = doc.Close()
			return out.failed(ErrSaveFailure, err)
		}
		o.log.Warn().Str("path", path).Err(err).
			Msg("standard save failed, retrying with conservative settings")
		if fbErr := doc.Save(tmp.path, fallbackSaveOptions()); fbErr == nil {
			out.Repaired = true
		} else {
			// Last resort: rebuild page by page straight into the
			// staging path.
			_ = doc.Close()
			doc = nil
			pages, rbErr := o.rebuild(path, tmp.path)
			if rbErr == nil && pages == 0 {
				rbErr = errNoPagesRecovered
			}
			if rbErr != nil {
				return out.failed(ErrUnrecoverableSave, rbErr)
			}
			out.Repaired = true
		}
	}

	// Close failures must not mask an already-determined outcome.
	if doc != nil {
		_ = doc.Close()
	}

	ok, err := tmp.exists()
	if err == nil && !ok {
		err = fmt.Errorf("staged file %s was not created", tmp.path)
	}
	if err != nil {
		return out.failed(ErrTempFileMissing, err)
	}

	newSize, err := tmp.size()
	if err != nil {
		return out.failed(ErrTempFileMissing, err)
	}

	if newSize < out.OriginalSize {
		if err := o.replaceFile(tmp.path, path); err != nil {
			return out.failed(ErrReplaceFailure, err)
		}
		tmp.commit()
		out.NewSize = newSize
	} else {
		// No regression is ever committed; the deferred cleanup drops
		// the staged file.
		o.log.Debug().Str("path", path).Msg("no size reduction, keeping original")
	}

	out.Success = true
	return out
}
