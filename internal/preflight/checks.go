package preflight

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"

	"winbootstrap/internal/execx"
)

const (
	NameAdministrator   = "Administrator"
	NameOSVersion       = "OS version"
	NameShellVersion    = "PowerShell version"
	NameNetwork         = "Network"
	NameDiskSpace       = "Disk space"
	NameExecutionPolicy = "Execution policy"
)

const bytesPerGiB = float64(1 << 30)

// CheckAdministrator verifies the process runs elevated.
func (p *Probe) CheckAdministrator() Result {
	result := Result{Name: NameAdministrator, Hard: true}
	elevated, err := p.host.IsElevated()
	switch {
	case err != nil:
		result.Status = StatusFail
		result.Message = fmt.Sprintf("unable to determine elevation: %v", err)
	case !elevated:
		result.Status = StatusFail
		result.Message = "not running as administrator; restart from an elevated prompt"
	default:
		result.Status = StatusPass
		result.Message = "running with administrator rights"
	}
	return result
}

// CheckOSVersion verifies the Windows build meets the configured minimum.
func (p *Probe) CheckOSVersion() Result {
	result := Result{Name: NameOSVersion, Hard: true}
	osVersion, err := p.host.OSVersion()
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("unable to detect Windows build: %v", err)
		return result
	}
	summary := fmt.Sprintf("%s (build %d)", osVersion.Tier(), osVersion.Build)
	if int64(osVersion.Build) < int64(p.settings.MinOSBuild) {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s is older than the required build %d", summary, p.settings.MinOSBuild)
		return result
	}
	result.Status = StatusPass
	result.Message = summary
	return result
}

// CheckShellVersion asks PowerShell for its version and compares the major
// component. A failed query counts as an unsupported shell.
func (p *Probe) CheckShellVersion(ctx context.Context) Result {
	result := Result{Name: NameShellVersion, Hard: true, Status: StatusFail}
	stdout, _, err := p.query(ctx, "$PSVersionTable.PSVersion.ToString()")
	if err != nil {
		result.Message = fmt.Sprintf("unable to query %s version: %v", p.settings.Shell, err)
		return result
	}
	raw := execx.FirstLine(stdout)
	parsed, err := version.NewVersion(raw)
	if err != nil {
		result.Message = fmt.Sprintf("unrecognised %s version %q", p.settings.Shell, raw)
		return result
	}
	major := parsed.Segments()[0]
	if major < p.settings.MinShellMajor {
		result.Message = fmt.Sprintf("version %s is below the required major version %d", parsed, p.settings.MinShellMajor)
		return result
	}
	result.Status = StatusPass
	result.Message = "version " + parsed.String()
	return result
}

// CheckNetwork sends single ICMP echoes to the probe host until one succeeds
// or the attempts run out. Networks that filter ICMP report FAIL.
func (p *Probe) CheckNetwork(ctx context.Context) Result {
	result := Result{Name: NameNetwork, Hard: true}
	host := p.settings.NetworkHost
	var lastErr error
	for attempt := 1; attempt <= p.settings.NetworkAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, p.networkTimeout)
		stdout, _, err := p.exec.Run(attemptCtx, "", "ping", p.pingArgs(host)...)
		cancel()
		if err == nil && p.goos == "windows" && !hasEchoReply(stdout) {
			// ping.exe exits 0 when a router answers "Destination host unreachable".
			err = fmt.Errorf("no echo reply: %s", execx.FirstLine(stdout))
		}
		if err == nil {
			result.Status = StatusPass
			result.Message = fmt.Sprintf("%s reachable (attempt %d)", host, attempt)
			return result
		}
		lastErr = err
		p.logger.Debug("ping attempt failed",
			"host", host,
			"attempt", attempt,
			"error", err,
		)
	}
	result.Status = StatusFail
	result.Message = fmt.Sprintf("%s unreachable after %d attempts", host, p.settings.NetworkAttempts)
	if lastErr != nil {
		result.Message += fmt.Sprintf(" (%v)", lastErr)
	}
	return result
}

// hasEchoReply reports whether ping output contains a reply from the target
// itself. Only genuine echo replies carry a TTL.
func hasEchoReply(stdout []byte) bool {
	return bytes.Contains(bytes.ToUpper(stdout), []byte("TTL="))
}

func (p *Probe) pingArgs(host string) []string {
	if p.goos == "windows" {
		ms := strconv.FormatInt(p.networkTimeout.Milliseconds(), 10)
		return []string{"-n", "1", "-w", ms, host}
	}
	seconds := int(p.networkTimeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return []string{"-c", "1", "-W", strconv.Itoa(seconds), host}
}

// CheckDiskSpace compares free bytes on the system volume with the
// configured minimum. The comparison uses raw bytes; only the message rounds.
func (p *Probe) CheckDiskSpace() Result {
	result := Result{Name: NameDiskSpace, Hard: true}
	volume := p.host.SystemVolume()
	free, err := p.host.FreeBytes(volume)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("unable to read free space on %s: %v", volume, err)
		return result
	}
	summary := fmt.Sprintf("%.2f GiB free on %s (minimum %.2f GiB)", float64(free)/bytesPerGiB, volume, p.settings.MinFreeGiB)
	if free < p.minFreeBytes {
		result.Status = StatusFail
	} else {
		result.Status = StatusPass
	}
	result.Message = summary
	return result
}

// CheckExecutionPolicy reports whether PowerShell will run downloaded
// scripts. It only ever warns.
func (p *Probe) CheckExecutionPolicy(ctx context.Context) Result {
	result := Result{Name: NameExecutionPolicy, Status: StatusWarn}
	stdout, _, err := p.query(ctx, "Get-ExecutionPolicy")
	if err != nil {
		result.Message = fmt.Sprintf("unable to query execution policy: %v", err)
		return result
	}
	policy := execx.FirstLine(stdout)
	for _, allowed := range p.settings.AllowedExecutionPolicies {
		if strings.EqualFold(policy, allowed) {
			result.Status = StatusPass
			result.Message = policy
			return result
		}
	}
	if policy == "" {
		policy = "unknown"
	}
	result.Message = fmt.Sprintf("%s may block scripts; consider Set-ExecutionPolicy RemoteSigned -Scope CurrentUser", policy)
	return result
}

// query runs a PowerShell expression, bounded so a wedged shell cannot stall
// the probe.
func (p *Probe) query(ctx context.Context, expression string) ([]byte, []byte, error) {
	queryCtx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()
	return p.exec.Run(queryCtx, "", p.settings.Shell, "-NoProfile", "-NonInteractive", "-Command", expression)
}
