//go:build !windows && !linux && !darwin

package system

import (
	"fmt"
	"os"
)

func (*Local) IsElevated() (bool, error) {
	return false, fmt.Errorf("elevation: %w", ErrUnsupported)
}

func (*Local) OSVersion() (OSVersion, error) {
	return OSVersion{}, fmt.Errorf("windows build: %w", ErrUnsupported)
}

func (*Local) SystemVolume() string {
	return string(os.PathSeparator)
}

func (*Local) FreeBytes(string) (uint64, error) {
	return 0, fmt.Errorf("free space: %w", ErrUnsupported)
}

func (*Local) RefreshPath() error {
	return nil
}

func (*Local) DocumentsDir() (string, error) {
	return homeDocuments()
}

func EnableVirtualTerminal() {}
