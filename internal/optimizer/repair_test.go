package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairDirectOpenShortCircuits(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/fine.pdf", 5000)
	eng.add("/docs/fine.pdf", fakeSpec{pages: 2})

	doc, err := o.repair("/docs/fine.pdf")

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 2, doc.PageCount())
	// Untouched: no rebuild happened.
	assert.Equal(t, pdfBytes(5000), mustRead(t, fs, "/docs/fine.pdf"))
	assertNoTempFiles(t, fs)
}

func TestRepairReplacesOriginalWithReconstruction(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/broken.pdf", 5000)
	eng.add("/docs/broken.pdf", fakeSpec{pages: 3, failOpens: 1})

	doc, err := o.repair("/docs/broken.pdf")

	require.NoError(t, err)
	require.NotNil(t, doc)
	// Three surviving pages at the fake's per-page size.
	assert.Equal(t, int64(300), fileSize(t, fs, "/docs/broken.pdf"))
	assertNoTempFiles(t, fs)
}

func TestRepairFailsWhenNothingRecoverable(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/hopeless.pdf", 5000)
	eng.add("/docs/hopeless.pdf", fakeSpec{
		pages:     2,
		failOpens: 1,
		badPages:  map[int]bool{0: true, 1: true},
	})

	_, err := o.repair("/docs/hopeless.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, errNoPagesRecovered)
	assert.Equal(t, pdfBytes(5000), mustRead(t, fs, "/docs/hopeless.pdf"))
	assertNoTempFiles(t, fs)
}

func TestRebuildSkipsDamagedPages(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/partial.pdf", 5000)
	eng.add("/docs/partial.pdf", fakeSpec{
		pages:    5,
		badPages: map[int]bool{1: true, 3: true},
	})

	pages, err := o.rebuild("/docs/partial.pdf", "/docs/out.pdf")

	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Equal(t, int64(300), fileSize(t, fs, "/docs/out.pdf"))
}

func TestRebuildWholeCopyFastPath(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/ok.pdf", 5000)
	eng.add("/docs/ok.pdf", fakeSpec{pages: 4})

	pages, err := o.rebuild("/docs/ok.pdf", "/docs/out.pdf")

	require.NoError(t, err)
	assert.Equal(t, 4, pages)
}

func TestRebuildZeroPageSource(t *testing.T) {
	fs, eng, o := newTestOptimizer()
	writePDF(t, fs, "/docs/empty.pdf", 100)
	eng.add("/docs/empty.pdf", fakeSpec{pages: 0})

	_, err := o.rebuild("/docs/empty.pdf", "/docs/out.pdf")

	assert.ErrorIs(t, err, errNoPagesRecovered)
}
