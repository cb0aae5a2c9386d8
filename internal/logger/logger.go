package logger

import (
	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Colorized printf-style functions, one per level.
// They behave like fmt.Printf and write to color.Output (stdout by default).

// Info logs progress and successful steps in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs recoverable problems in bright magenta.
// Cleanup failures and report write failures land here since they never abort a run.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs step failures in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs verbose details (commands, captured process output) in cyan.
// It is a no-op until Init(true) is called.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug logging.
// Parameters:
// - enableDebug: when true, Debug prints cyan messages; otherwise Debug discards everything.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
