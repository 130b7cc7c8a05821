// Package pdfutil identifies PDF files by name and content so the
// walker never trusts an extension alone.
package pdfutil

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/spf13/afero"
)

var pdfSig = []byte("%PDF-")

// HasPDFExtension reports whether path ends in .pdf, case-insensitive.
func HasPDFExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// DetectHeader inspects the leading bytes of a file for the PDF
// signature.
func DetectHeader(header []byte) (bool, error) {
	if len(header) < len(pdfSig) {
		return false, errors.New("header too short")
	}

	if filetype.IsType(header, matchers.TypePdf) {
		return true, nil
	}
	// filetype anchors the signature at offset zero; tolerate the
	// junk some producers emit before %PDF-.
	return strings.Contains(string(header), string(pdfSig)), nil
}

// SniffFile reads the head of a file to determine whether it is a PDF.
func SniffFile(fs afero.Fs, path string) (bool, error) {
	f, err := fs.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to 1KiB from r and determines whether it looks
// like a PDF.
func SniffReader(r io.Reader) (bool, error) {
	header := make([]byte, 1024)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}

	return DetectHeader(header[:n])
}
