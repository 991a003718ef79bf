//go:build unix

package staleness

import (
	"time"

	"golang.org/x/sys/unix"
)

// lastAccess reads the access timestamp from the inode. Symlinks are
// followed, matching how the rest of the scan sees the tree.
func lastAccess(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, err
	}
	sec, nsec := st.Atim.Unix()
	return time.Unix(sec, nsec), nil
}
