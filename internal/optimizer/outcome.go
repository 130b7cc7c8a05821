package optimizer

import "fmt"

// ErrorKind classifies why a file could not be optimized.
type ErrorKind int

const (
	// ErrUnexpected is the catch-all for anything escaping the kinds
	// below.
	ErrUnexpected ErrorKind = iota
	// ErrInaccessible marks a missing or unreadable file.
	ErrInaccessible
	// ErrOpenFailure marks a file the engine cannot parse, with repair
	// not attempted or not requested.
	ErrOpenFailure
	// ErrRepairFailure marks a file for which every repair strategy
	// was exhausted.
	ErrRepairFailure
	// ErrEncrypted marks a password-protected file; never touched.
	ErrEncrypted
	// ErrSaveFailure marks a file whose standard and fallback saves
	// both failed.
	ErrSaveFailure
	// ErrUnrecoverableSave marks a file whose page-by-page
	// reconstruction also failed.
	ErrUnrecoverableSave
	// ErrTempFileMissing marks a violated post-save invariant: the
	// staged temp file is gone.
	ErrTempFileMissing
	// ErrReplaceFailure marks a failed atomic swap of the temp file
	// over the original.
	ErrReplaceFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInaccessible:
		return "inaccessible"
	case ErrOpenFailure:
		return "open failure"
	case ErrRepairFailure:
		return "repair failure"
	case ErrEncrypted:
		return "encrypted"
	case ErrSaveFailure:
		return "save failure"
	case ErrUnrecoverableSave:
		return "unrecoverable save"
	case ErrTempFileMissing:
		return "temp file missing"
	case ErrReplaceFailure:
		return "replace failure"
	default:
		return "unexpected"
	}
}

// FileError is a classified per-file failure.
type FileError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one single-file optimization attempt.
// Produced exactly once per attempted file.
type Outcome struct {
	Path         string
	Success      bool
	OriginalSize int64
	NewSize      int64
	Repaired     bool
	Failure      *FileError
}

func (o Outcome) failed(kind ErrorKind, err error) Outcome {
	o.Success = false
	o.Failure = &FileError{Kind: kind, Path: o.Path, Err: err}
	return o
}

// BytesSaved returns how many bytes the optimization recovered.
func (o Outcome) BytesSaved() int64 {
	return o.OriginalSize - o.NewSize
}
