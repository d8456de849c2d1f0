//go:build linux || darwin

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// IsElevated reports whether the effective uid is root.
func (*Local) IsElevated() (bool, error) {
	return os.Geteuid() == 0, nil
}

// OSVersion is only meaningful on Windows.
func (*Local) OSVersion() (OSVersion, error) {
	return OSVersion{}, fmt.Errorf("windows build: %w", ErrUnsupported)
}

func (*Local) SystemVolume() string {
	return "/"
}

// FreeBytes returns the bytes available to unprivileged users on the
// filesystem holding path.
func (*Local) FreeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}

// RefreshPath is a no-op: unix installers do not persist PATH in a store the
// process can reread.
func (*Local) RefreshPath() error {
	return nil
}

func (*Local) DocumentsDir() (string, error) {
	return homeDocuments()
}

// EnableVirtualTerminal is a no-op outside Windows consoles.
func EnableVirtualTerminal() {}
