package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool cubby can take advantage of.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Defaults returns the external tools cubby probes for at startup. All of
// them are optional; the organizer degrades rather than refusing to run.
func Defaults() []Requirement {
	return []Requirement{
		{
			Name:        "tag",
			Command:     "tag",
			Description: "Finder tag CLI used to color the Manual and Review folders",
			Optional:    true,
		},
	}
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
