package main

import (
	"setup-cpp/cmd"
)

// main delegates to cmd.Execute, which parses the command line and runs the
// selected command.
//
// setup-cpp provisions a C/C++ development environment on one machine:
//   - checks for administrator rights
//   - downloads and silently installs a compiler toolchain (or unpacks an archive)
//   - appends the toolchain bin directory to the machine-wide search path
//   - downloads and silently installs the editor, then its C/C++ extension
//   - writes the editor configuration files into a workspace folder
//   - removes the downloaded installers
//
// Steps run strictly in order; the first failure stops the run and leaves
// earlier effects in place. Each run leaves a JSON report behind.
func main() {
	cmd.Execute()
}
