package install

// Method names how a tool ended up installed.
type Method string

const (
	MethodPreexisting Method = "preexisting"
	MethodWinget      Method = "winget"
	MethodChocolatey  Method = "chocolatey"
	MethodPowerShell  Method = "powershell"
	MethodUV          Method = "uv"
	MethodAppx        Method = "appx"
	MethodNone        Method = "none"
)

// Status is the outcome of ensuring one tool.
type Status struct {
	Tool      string
	Installed bool
	Method    Method
	Version   string
	// Skipped is set when a gate tool was missing and nothing was attempted.
	Skipped bool
	// Attempts counts strategies started, including ones that failed
	// immediately because their package manager was missing.
	Attempts int
	Error    string
}
