package tester

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Counts(t *testing.T) {
	tests := []struct {
		name   string
		passed []bool
	}{
		{name: "empty", passed: nil},
		{name: "all passing", passed: []bool{true, true, true}},
		{name: "all failing", passed: []bool{false, false}},
		{name: "mixed", passed: []bool{true, false, true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &Report{}
			for _, p := range tt.passed {
				report.Add(Result{Name: "probe", Passed: p, Message: "msg"})
			}

			assert.Equal(t, len(tt.passed), report.Total())
			assert.Equal(t, report.Total(), report.Passed()+report.Failed())
		})
	}
}

func TestReport_CountsDerivedNotCached(t *testing.T) {
	report := &Report{}
	report.Add(Result{Name: "a", Passed: true})
	assert.Equal(t, 1, report.Passed())
	assert.Equal(t, 0, report.Failed())

	report.Add(Result{Name: "b", Passed: false})
	assert.Equal(t, 1, report.Passed())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 2, report.Total())
}

func TestReport_Print(t *testing.T) {
	report := &Report{}
	report.Add(Result{Name: "server_start", Passed: true, Message: "server started successfully"})
	report.Add(Result{Name: "initialize", Passed: false, Message: "missing keys in initialize result: serverInfo"})

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "server_start")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "1/2 passed")
	assert.Contains(t, out, "1 failed")
}

func TestReport_PrintAllPassing(t *testing.T) {
	report := &Report{}
	report.Add(Result{Name: "ping", Passed: true, Message: "ping OK"})

	var buf bytes.Buffer
	report.Print(&buf)
	assert.Contains(t, buf.String(), "all tests passed")
}

func TestReport_PrintVerboseIncludesResponses(t *testing.T) {
	report := &Report{}
	report.Add(Result{
		Name:     "ping",
		Passed:   true,
		Message:  "ping OK",
		Response: map[string]interface{}{"jsonrpc": "2.0", "result": map[string]interface{}{}},
	})

	var buf bytes.Buffer
	report.PrintVerbose(&buf)
	assert.Contains(t, buf.String(), "--- ping response ---")
	assert.Contains(t, buf.String(), `"jsonrpc": "2.0"`)
}
