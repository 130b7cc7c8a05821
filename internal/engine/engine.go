// Package engine abstracts the PDF engine used to open, rebuild and
// rewrite documents. The optimizer core only ever talks to these
// interfaces; the production implementation is backed by pdfcpu.
package engine

// SaveOptions controls how a document is written back to disk.
type SaveOptions struct {
	// GarbageLevel sets how aggressively unreferenced objects are
	// dropped during the rewrite, 1 (minimal) through 4.
	GarbageLevel int
	// Deflate compresses content streams.
	Deflate bool
	// Clean rebuilds cross-reference structures and strips redundancy.
	Clean bool
	// Incremental appends to the existing structure instead of
	// rewriting it fully; more tolerant of malformed input.
	Incremental bool
}

// Document is an open PDF handle.
type Document interface {
	// IsEncrypted reports whether the document is password protected.
	IsEncrypted() bool

	// PageCount returns the number of pages, 0 if unknown.
	PageCount() int

	// Save writes the document to path according to opts. The source
	// file is left untouched.
	Save(path string, opts SaveOptions) error

	// InsertPages copies the inclusive, zero-based page range
	// [fromPage, toPage] of from into this document, appending after
	// any existing pages.
	InsertPages(from Document, fromPage, toPage int) error

	// Close releases the handle. Safe to call more than once.
	Close() error
}

// Engine opens existing documents and creates empty ones.
type Engine interface {
	Open(path string) (Document, error)
	NewEmpty() (Document, error)
}
