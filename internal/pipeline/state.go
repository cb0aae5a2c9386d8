package pipeline

import "fmt"

// State is one position of the provisioning state machine.
type State int

const (
	Start State = iota
	CheckPrivilege
	InitWorkspace
	DownloadToolchain
	InstallToolchain
	ConfigureToolchainPath
	DownloadEditor
	InstallEditor
	InstallEditorExtension
	VerifyEditorExtension
	WriteConfigFiles
	CleanupTempFiles
	Done
	Aborted
)

var stateNames = [...]string{
	Start:                  "Start",
	CheckPrivilege:         "CheckPrivilege",
	InitWorkspace:          "InitWorkspace",
	DownloadToolchain:      "DownloadToolchain",
	InstallToolchain:       "InstallToolchain",
	ConfigureToolchainPath: "ConfigureToolchainPath",
	DownloadEditor:         "DownloadEditor",
	InstallEditor:          "InstallEditor",
	InstallEditorExtension: "InstallEditorExtension",
	VerifyEditorExtension:  "VerifyEditorExtension",
	WriteConfigFiles:       "WriteConfigFiles",
	CleanupTempFiles:       "CleanupTempFiles",
	Done:                   "Done",
	Aborted:                "Aborted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == Done || s == Aborted
}

// IsStep reports whether s is an executable step rather than Start or a terminal state.
func (s State) IsStep() bool {
	return s > Start && s < Done
}

// Steps returns every step in canonical order.
func Steps() []State {
	steps := make([]State, 0, int(Done-CheckPrivilege))
	for s := CheckPrivilege; s < Done; s++ {
		steps = append(steps, s)
	}
	return steps
}

// requires lists steps whose output a step consumes.
var requires = map[State][]State{
	InstallToolchain: {DownloadToolchain},
	InstallEditor:    {DownloadEditor},
	WriteConfigFiles: {InitWorkspace},
}

// validatePlan checks that plan is a non-empty, strictly increasing subsequence
// of Steps() and that every step's inputs are produced earlier in the plan.
func validatePlan(plan []State) error {
	if len(plan) == 0 {
		return fmt.Errorf("plan is empty")
	}
	seen := make(map[State]bool, len(plan))
	prev := Start
	for _, s := range plan {
		if !s.IsStep() {
			return fmt.Errorf("%s is not a step", s)
		}
		if s <= prev {
			return fmt.Errorf("%s must come after %s", s, prev)
		}
		for _, dep := range requires[s] {
			if !seen[dep] {
				return fmt.Errorf("%s requires %s earlier in the plan", s, dep)
			}
		}
		seen[s] = true
		prev = s
	}
	return nil
}
