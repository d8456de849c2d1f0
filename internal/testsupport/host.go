package testsupport

import (
	"errors"
	"fmt"
	"sync"

	"winbootstrap/internal/system"
)

// FakeHost is an in-memory system.Host. Commands become resolvable either
// immediately (Install) or after the next RefreshPath (Stage), which mirrors
// installers that only update the persisted PATH.
type FakeHost struct {
	mu sync.Mutex

	Elevated    bool
	ElevatedErr error
	Version     system.OSVersion
	VersionErr  error
	Volume      string
	Free        uint64
	FreeErr     error
	Documents   string
	DocsErr     error
	RefreshErr  error

	commands  map[string]string
	staged    map[string]string
	refreshes int
}

var _ system.Host = (*FakeHost)(nil)

// EchoReply is what Windows ping prints for a host that answered.
const EchoReply = "Reply from 8.8.8.8: bytes=32 time=14ms TTL=117\r\n"

// NewFakeHost returns an elevated Windows 11 host with 100 GiB free and the
// given commands resolvable.
func NewFakeHost(commands ...string) *FakeHost {
	h := &FakeHost{
		Elevated: true,
		Version:  system.OSVersion{Major: 10, Build: 22631},
		Volume:   `C:\`,
		Free:     100 << 30,
	}
	for _, name := range commands {
		h.Install(name)
	}
	return h
}

// Install makes name resolvable now.
func (h *FakeHost) Install(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.commands == nil {
		h.commands = make(map[string]string)
	}
	h.commands[name] = fakePath(name)
}

// Stage makes name resolvable after the next RefreshPath.
func (h *FakeHost) Stage(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.staged == nil {
		h.staged = make(map[string]string)
	}
	h.staged[name] = fakePath(name)
}

// Remove makes name unresolvable.
func (h *FakeHost) Remove(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.commands, name)
	delete(h.staged, name)
}

// Refreshes counts RefreshPath calls.
func (h *FakeHost) Refreshes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refreshes
}

func (h *FakeHost) IsElevated() (bool, error) {
	return h.Elevated, h.ElevatedErr
}

func (h *FakeHost) OSVersion() (system.OSVersion, error) {
	return h.Version, h.VersionErr
}

func (h *FakeHost) SystemVolume() string {
	return h.Volume
}

func (h *FakeHost) FreeBytes(string) (uint64, error) {
	return h.Free, h.FreeErr
}

func (h *FakeHost) LookPath(name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if path, ok := h.commands[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: %w", name, errNotFound)
}

func (h *FakeHost) RefreshPath() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refreshes++
	if h.RefreshErr != nil {
		return h.RefreshErr
	}
	if h.commands == nil {
		h.commands = make(map[string]string)
	}
	for name, path := range h.staged {
		h.commands[name] = path
	}
	h.staged = nil
	return nil
}

func (h *FakeHost) DocumentsDir() (string, error) {
	return h.Documents, h.DocsErr
}

var errNotFound = errors.New("executable file not found in %PATH%")

func fakePath(name string) string {
	return `C:\fake\bin\` + name + `.exe`
}
