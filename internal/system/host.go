package system

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrUnsupported reports a fact the current platform cannot provide.
var ErrUnsupported = errors.New("not supported on this platform")

// Host is the full set of host facts the workflow consumes. Consumers accept
// the narrower interfaces declared next to them.
type Host interface {
	IsElevated() (bool, error)
	OSVersion() (OSVersion, error)
	SystemVolume() string
	FreeBytes(path string) (uint64, error)
	LookPath(name string) (string, error)
	RefreshPath() error
	DocumentsDir() (string, error)
}

// Local answers from the machine the process runs on.
type Local struct{}

// NewLocal returns the host backed by the running machine.
func NewLocal() *Local {
	return &Local{}
}

// LookPath resolves name against the current process PATH.
func (*Local) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// OSVersion is a Windows NT version triple.
type OSVersion struct {
	Major uint32
	Minor uint32
	Build uint32
}

const (
	firstWindows10Build = 10240
	firstWindows11Build = 22000
)

// Tier names the Windows generation for the build number.
func (v OSVersion) Tier() string {
	switch {
	case v.Build >= firstWindows11Build:
		return "Windows 11"
	case v.Build >= firstWindows10Build:
		return "Windows 10"
	default:
		return "unsupported"
	}
}

func (v OSVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// MergePathLists rebuilds a PATH value from the persisted machine and user
// lists, keeping entries only the current process knows about at the end.
// Duplicates are dropped; fold controls case-insensitive comparison.
func MergePathLists(sep string, fold bool, machine, user, current string) string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range []string{machine, user, current} {
		for _, entry := range strings.Split(list, sep) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			key := strings.TrimRight(entry, `/\`)
			if fold {
				key = strings.ToLower(key)
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, entry)
		}
	}
	return strings.Join(merged, sep)
}

func homeDocuments() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home + string(os.PathSeparator) + "Documents", nil
}
