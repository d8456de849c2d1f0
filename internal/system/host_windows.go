//go:build windows

package system

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	machineEnvironmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	userEnvironmentKey    = `Environment`
	userShellFoldersKey   = `Software\Microsoft\Windows\CurrentVersion\Explorer\User Shell Folders`
)

// IsElevated reports membership of the process token in BUILTIN\Administrators.
func (*Local) IsElevated() (bool, error) {
	var adminSid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&adminSid)
	if err != nil {
		return false, fmt.Errorf("allocate administrators sid: %w", err)
	}
	defer windows.FreeSid(adminSid)
	return windows.Token(0).IsMember(adminSid)
}

// OSVersion uses RtlGetVersion, which is not subject to manifest shimming.
func (*Local) OSVersion() (OSVersion, error) {
	info := windows.RtlGetVersion()
	if info == nil {
		return OSVersion{}, fmt.Errorf("RtlGetVersion returned no data")
	}
	return OSVersion{Major: info.MajorVersion, Minor: info.MinorVersion, Build: info.BuildNumber}, nil
}

// SystemVolume returns the root of %SystemDrive%.
func (*Local) SystemVolume() string {
	drive := strings.TrimSpace(os.Getenv("SystemDrive"))
	if drive == "" {
		drive = "C:"
	}
	return strings.TrimRight(drive, `\`) + `\`
}

// FreeBytes returns the bytes available to the caller on the volume holding path.
func (*Local) FreeBytes(path string) (uint64, error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &available, &total, &free); err != nil {
		return 0, fmt.Errorf("query free space on %s: %w", path, err)
	}
	return available, nil
}

// RefreshPath reloads PATH from the machine and user environment keys so
// commands installed by a child process become resolvable without a new shell.
func (*Local) RefreshPath() error {
	machine, err := readExpandedString(registry.LOCAL_MACHINE, machineEnvironmentKey, "Path")
	if err != nil {
		return fmt.Errorf("read machine PATH: %w", err)
	}
	// A user without a personal PATH is normal.
	user, _ := readExpandedString(registry.CURRENT_USER, userEnvironmentKey, "Path")
	return os.Setenv("PATH", MergePathLists(";", true, machine, user, os.Getenv("PATH")))
}

// DocumentsDir returns the Personal shell folder, honouring folder
// redirection, with %USERPROFILE%\Documents as fallback.
func (*Local) DocumentsDir() (string, error) {
	if dir, err := readExpandedString(registry.CURRENT_USER, userShellFoldersKey, "Personal"); err == nil && dir != "" {
		return dir, nil
	}
	return homeDocuments()
}

func readExpandedString(root registry.Key, path, name string) (string, error) {
	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()
	value, valueType, err := key.GetStringValue(name)
	if err != nil {
		return "", err
	}
	if valueType == registry.EXPAND_SZ {
		return registry.ExpandString(value)
	}
	return value, nil
}

// EnableVirtualTerminal turns on ANSI escape processing for stdout and stderr.
func EnableVirtualTerminal() {
	for _, stream := range []*os.File{os.Stdout, os.Stderr} {
		handle := windows.Handle(stream.Fd())
		var mode uint32
		if err := windows.GetConsoleMode(handle, &mode); err == nil {
			_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
		}
	}
}
