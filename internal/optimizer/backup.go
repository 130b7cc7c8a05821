package optimizer

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// backupSuffix names the sibling copy written before a file is
// mutated.
const backupSuffix = ".backup"

// backupFile copies path to a .backup sibling and verifies the copy by
// checksum. Any error here degrades to a warning at the call site; a
// failed backup never blocks the optimization attempt.
func backupFile(fs afero.Fs, path string) error {
	backupPath := path + backupSuffix

	srcInfo, err := fs.Stat(path)
	if err != nil {
		return err
	}

	src, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := fs.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	srcSum, err := checksum(fs, path)
	if err != nil {
		return err
	}
	dstSum, err := checksum(fs, backupPath)
	if err != nil {
		return err
	}
	if srcSum != dstSum {
		return fmt.Errorf("backup checksum mismatch for %s", path)
	}
	return nil
}

func checksum(fs afero.Fs, path string) (uint64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
