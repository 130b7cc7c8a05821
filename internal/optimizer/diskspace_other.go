//go:build !linux && !darwin

package optimizer

import "errors"

func freeSpace(dir string) (uint64, error) {
	return 0, errors.New("free space query not supported on this platform")
}
