//go:build !unix

package staleness

import (
	"os"
	"time"
)

// lastAccess approximates access time with the modification time on
// platforms without a portable atime.
func lastAccess(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
