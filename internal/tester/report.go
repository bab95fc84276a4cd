package tester

import (
	"fmt"
	"io"

	"mcp-forge/internal/jsonutil"
)

// Result is the outcome of a single probe. Immutable once recorded.
type Result struct {
	Name    string
	Passed  bool
	Message string

	// Response holds the decoded reply the probe was judged on, when one
	// was received.
	Response map[string]interface{}
}

// Report aggregates probe results in execution order. Counts are derived
// from the result sequence, never cached.
type Report struct {
	Results []Result
}

// Add appends a result to the report
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Passed returns the number of passing results
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing results
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// Total returns the number of results
func (r *Report) Total() int {
	return len(r.Results)
}

// Print renders the report as a table followed by a summary line
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "%-20s %-6s %s\n", "TEST", "STATUS", "DETAILS")
	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-20s %-6s %s\n", res.Name, status, res.Message)
	}

	fmt.Fprintf(w, "\n%d/%d passed", r.Passed(), r.Total())
	if failed := r.Failed(); failed > 0 {
		fmt.Fprintf(w, ", %d failed\n", failed)
	} else {
		fmt.Fprintf(w, ", all tests passed\n")
	}
}

// PrintVerbose renders the report with the raw response attached to each
// probe that received one.
func (r *Report) PrintVerbose(w io.Writer) {
	r.Print(w)
	for _, res := range r.Results {
		if res.Response == nil {
			continue
		}
		fmt.Fprintf(w, "\n--- %s response ---\n%s\n", res.Name, jsonutil.Pretty(res.Response))
	}
}
