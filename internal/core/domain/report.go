package domain

import (
	"fmt"
	"strings"
)

// CheckResult is the outcome of one dataset validation check.
type CheckResult struct {
	Name    string   `json:"name"`
	Passed  bool     `json:"passed"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Summary renders a single PASS/FAIL line for the check.
func (r CheckResult) Summary() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s: %s", status, r.Name, r.Message)
}

// ValidationReport aggregates all check results of one validation run.
type ValidationReport struct {
	Results []CheckResult `json:"results"`
}

// Add appends a check result to the report.
func (r *ValidationReport) Add(res CheckResult) {
	r.Results = append(r.Results, res)
}

// Passed reports whether every check passed.
func (r ValidationReport) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed and failed checks.
func (r ValidationReport) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Summary renders one line per check plus a totals line.
func (r ValidationReport) Summary() string {
	lines := make([]string, 0, len(r.Results)+1)
	for _, res := range r.Results {
		lines = append(lines, res.Summary())
	}
	passed, failed := r.Counts()
	lines = append(lines, fmt.Sprintf("%d passed, %d failed", passed, failed))
	return strings.Join(lines, "\n")
}
