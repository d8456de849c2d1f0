package execx

import (
	"context"
	"strings"
	"sync"
)

// FakeExecutor records invocations and returns canned responses. Useful in tests.
//
// Lookup order for a call: Responses keyed by Key(name, args...), then
// Handler, then an empty successful response.
type FakeExecutor struct {
	mu        sync.Mutex
	Calls     []ExecCall
	Responses map[string]ExecResponse
	Handler   func(ExecCall) ExecResponse
}

type ExecCall struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as a space-joined command line.
func (c ExecCall) Line() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

type ExecResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// Key builds the Responses map key for a command line.
func Key(name string, args ...string) string {
	return name + "\x00" + strings.Join(args, "\x00")
}

func (f *FakeExecutor) Run(_ context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	call := ExecCall{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	response, ok := f.Responses[Key(name, args...)]
	handler := f.Handler
	f.mu.Unlock()
	if !ok && handler != nil {
		response = handler(call)
	}
	return response.Stdout, response.Stderr, response.Err
}

// Lines returns every recorded call as a command line, in order.
func (f *FakeExecutor) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		lines = append(lines, call.Line())
	}
	return lines
}

// CallsTo returns the recorded calls of the named program.
func (f *FakeExecutor) CallsTo(name string) []ExecCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ExecCall
	for _, call := range f.Calls {
		if call.Name == name {
			out = append(out, call)
		}
	}
	return out
}
