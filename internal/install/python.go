package install

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"winbootstrap/internal/execx"
)

// pythonVerifier confirms uv lists the requested interpreter and then asks
// that interpreter for its exact version.
func pythonVerifier(requested string) verifier {
	return func(ctx context.Context, in *Installer) (string, error) {
		if _, err := in.host.LookPath("uv"); err != nil {
			return "", fmt.Errorf("uv not resolvable: %w", err)
		}
		stdout, _, err := in.query(ctx, "uv", "python", "list", "--only-installed")
		if err != nil {
			return "", fmt.Errorf("list installed interpreters: %w", err)
		}
		listed, ok := FindInstalledPython(string(stdout), requested)
		if !ok {
			return "", fmt.Errorf("python %s not in uv listing", requested)
		}
		stdout, _, err = in.query(ctx, "uv", "run", "--no-project", "--python", requested, "python", "--version")
		if err != nil {
			in.logger.Debug("python version re-query failed; using listing", "error", err)
			return listed, nil
		}
		if reported := strings.TrimSpace(strings.TrimPrefix(execx.FirstLine(stdout), "Python")); reported != "" {
			return reported, nil
		}
		return listed, nil
	}
}

// FindInstalledPython scans `uv python list` output for an interpreter whose
// version starts with requested, segment by segment (3.12 matches 3.12.7 but
// not 3.1.2). It returns the full listed version.
func FindInstalledPython(listing, requested string) (string, bool) {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// cpython-3.12.7-windows-x86_64-none
		parts := strings.Split(fields[0], "-")
		if len(parts) < 2 {
			continue
		}
		if MatchesVersionPrefix(requested, parts[1]) {
			return parts[1], true
		}
	}
	return "", false
}

// MatchesVersionPrefix reports whether candidate falls under requested,
// comparing only the segments requested spells out.
func MatchesVersionPrefix(requested, candidate string) bool {
	requested = strings.TrimSpace(requested)
	want, err := version.NewVersion(requested)
	if err != nil {
		return false
	}
	have, err := version.NewVersion(strings.TrimSpace(candidate))
	if err != nil {
		return false
	}
	// Segments pads to three; only compare what the caller wrote.
	n := strings.Count(strings.SplitN(requested, "+", 2)[0], ".") + 1
	wantSegments, haveSegments := want.Segments(), have.Segments()
	if n > len(wantSegments) {
		n = len(wantSegments)
	}
	if n > len(haveSegments) {
		return false
	}
	for i := 0; i < n; i++ {
		if wantSegments[i] != haveSegments[i] {
			return false
		}
	}
	return true
}
