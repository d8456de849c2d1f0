package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"winbootstrap/internal/galaxy"
	"winbootstrap/internal/install"
	"winbootstrap/internal/preflight"
	"winbootstrap/internal/reposync"
	"winbootstrap/internal/restore"
)

// Verdict is the overall outcome of a run.
type Verdict string

const (
	VerdictSuccess Verdict = "SUCCESS"
	VerdictPartial Verdict = "PARTIAL"
	VerdictFailed  Verdict = "FAILED"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitHalted = 1
	ExitFailed = 2
)

// Report accumulates a run's outcomes. It is filled in as stages complete
// and rendered once.
type Report struct {
	RunID        string
	StartedAt    time.Time
	Elapsed      time.Duration
	LogPath      string
	Checks       []preflight.Result
	RestorePoint restore.Outcome
	Tools        []install.Status
	Repo         *reposync.State
	Dependencies *galaxy.Result
	Halted       bool
	HaltReason   string

	// Interrupted is set when the operator stopped the run; StoppedBefore
	// names the first stage that did not run.
	Interrupted   bool
	StoppedBefore string
}

// New starts a report for runID.
func New(runID string, startedAt time.Time) *Report {
	return &Report{RunID: runID, StartedAt: startedAt, RestorePoint: restore.OutcomeSkipped}
}

// Halt marks the run as stopped by a blocking check.
func (r *Report) Halt(reason string) {
	r.Halted = true
	r.HaltReason = reason
}

// Interrupt marks the run as stopped by the operator before stage.
func (r *Report) Interrupt(stage string) {
	r.Interrupted = true
	r.StoppedBefore = stage
}

// Finish records the elapsed time at now.
func (r *Report) Finish(now time.Time) {
	r.Elapsed = now.Sub(r.StartedAt)
}

// Verdict is SUCCESS when uv and Python are installed and the repository is
// present, PARTIAL when only the repository is, FAILED otherwise. A failed
// pull over an existing checkout still counts as present.
func (r *Report) Verdict() Verdict {
	if r.Halted || r.Interrupted {
		return VerdictFailed
	}
	if r.Repo == nil || !r.Repo.Present {
		return VerdictFailed
	}
	if r.toolInstalled(install.ToolUV) && r.toolInstalled(install.ToolPython) {
		return VerdictSuccess
	}
	return VerdictPartial
}

// ExitCode maps the run outcome to a process status.
func (r *Report) ExitCode() int {
	if r.Halted {
		return ExitHalted
	}
	if r.Verdict() == VerdictFailed {
		return ExitFailed
	}
	return ExitOK
}

func (r *Report) toolInstalled(name string) bool {
	for _, status := range r.Tools {
		if status.Tool == name {
			return status.Installed
		}
	}
	return false
}

// Render writes the summary to w.
func (r *Report) Render(w io.Writer, colorize bool) error {
	var lines []string
	add := func(section ...string) { lines = append(lines, section...) }

	add(SectionHeader("Environment", colorize)...)
	add(RenderChecks(r.Checks), "")

	if r.Halted {
		add(StatusLine("Bootstrap", KindError, "halted: "+r.HaltReason, colorize), "")
	} else {
		if r.Interrupted {
			add(StatusLine("Bootstrap", KindError, "interrupted before "+r.StoppedBefore, colorize), "")
		}
		add(SectionHeader("Changes", colorize)...)
		add(StatusLine("Restore point", restoreKind(r.RestorePoint), titleCase(string(r.RestorePoint)), colorize), "")
		add(RenderTools(r.Tools), "")
		add(r.repoLines(colorize)...)
		add(r.dependencyLine(colorize), "")
	}

	add(SectionHeader("Summary", colorize)...)
	add(StatusLine("Verdict", verdictKind(r.Verdict()), string(r.Verdict()), colorize))
	add(StatusLine("Elapsed", KindInfo, r.Elapsed.Round(time.Second).String(), colorize))
	add(StatusLine("Run ID", KindInfo, r.RunID, colorize))
	if r.LogPath != "" {
		add(StatusLine("Log file", KindInfo, r.LogPath, colorize))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func (r *Report) repoLines(colorize bool) []string {
	if r.Repo == nil {
		return []string{StatusLine("Repository", KindWarn, "not attempted", colorize)}
	}
	repo := r.Repo
	kind := KindOK
	message := string(repo.Action) + " " + repo.LocalPath
	switch {
	case repo.Error != "" && repo.Present:
		kind, message = KindWarn, message+" ("+repo.Error+")"
	case repo.Error != "":
		kind, message = KindError, message+" ("+repo.Error+")"
	}
	lines := []string{StatusLine("Repository", kind, message, colorize)}
	if repo.Head != "" {
		head := shortHash(repo.Head)
		if repo.Branch != "" {
			head = repo.Branch + " @ " + head
		}
		lines = append(lines, StatusLine("HEAD", KindInfo, head, colorize))
	}
	return lines
}

func (r *Report) dependencyLine(colorize bool) string {
	deps := r.Dependencies
	switch {
	case deps == nil:
		return StatusLine("Dependencies", KindWarn, "skipped (repository not synced)", colorize)
	case deps.Skipped:
		return StatusLine("Dependencies", KindInfo, "no requirements manifest", colorize)
	case deps.OK:
		return StatusLine("Dependencies", KindOK,
			fmt.Sprintf("%d roles, %d collections", deps.Roles, deps.Collections), colorize)
	default:
		return StatusLine("Dependencies", KindWarn, deps.Error, colorize)
	}
}

// RenderChecks tabulates probe results.
func RenderChecks(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		severity := "advisory"
		if result.Hard {
			severity = "blocking"
		}
		rows = append(rows, []string{result.Name, string(result.Status), severity, result.Message})
	}
	return RenderTable([]string{"Check", "Status", "Severity", "Detail"}, rows, nil)
}

// RenderTools tabulates installer outcomes.
func RenderTools(statuses []install.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		note := status.Error
		if status.Skipped && note != "" {
			note = "skipped: " + note
		}
		rows = append(rows, []string{
			ToolLabel(status.Tool),
			yesNo(status.Installed),
			string(status.Method),
			status.Version,
			strconv.Itoa(status.Attempts),
			note,
		})
	}
	return RenderTable(
		[]string{"Tool", "Installed", "Method", "Version", "Attempts", "Note"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	)
}

// ToolLabel returns the display name of a catalog tool.
func ToolLabel(name string) string {
	if name == install.ToolUV {
		return name
	}
	return titleCase(name)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func shortHash(hash string) string {
	const width = 12
	if len(hash) > width {
		return hash[:width]
	}
	return hash
}

func restoreKind(outcome restore.Outcome) Kind {
	switch outcome {
	case restore.OutcomeCreated:
		return KindOK
	case restore.OutcomeFailed, restore.OutcomeInterrupted:
		return KindWarn
	default:
		return KindInfo
	}
}

func verdictKind(verdict Verdict) Kind {
	switch verdict {
	case VerdictSuccess:
		return KindOK
	case VerdictPartial:
		return KindWarn
	default:
		return KindError
	}
}
