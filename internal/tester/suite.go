package tester

import (
	"fmt"
	"strings"

	"github.com/oliveagle/jsonpath"

	"mcp-forge/internal/config"
	"mcp-forge/internal/protocol"
)

// Run executes the standard conformance suite against a freshly started
// server and returns one result per probe, in execution order.
//
// The run is a small state machine: a failed server start aborts with a
// single failing result; once started, probes run independently and every
// transport or parsing failure inside a probe degrades to a failing result
// instead of aborting. server_stop always runs when the start succeeded.
func Run(cfg *config.Config, command []string, dir string) *Report {
	report := &Report{}

	transport := NewTransport(command, dir)
	transport.StopTimeout = cfg.Tester.StopTimeout

	if err := transport.Start(); err != nil {
		report.Add(Result{Name: "server_start", Passed: false, Message: err.Error()})
		return report
	}
	report.Add(Result{Name: "server_start", Passed: true, Message: "server started successfully"})

	client := NewClient(transport)

	report.Add(probeInitialize(client, cfg))
	report.Add(probeListTools(client))
	report.Add(probeCallTool(client))
	report.Add(probePing(client))
	report.Add(probeUnknownMethod(client))

	for _, check := range cfg.Tester.Checks {
		report.Add(probeCheck(client, check))
	}

	transport.Stop()
	report.Add(Result{Name: "server_stop", Passed: true, Message: "server stopped cleanly"})

	return report
}

// probeInitialize verifies that the initialize result carries the three
// required keys, naming exactly the missing ones on failure.
func probeInitialize(client *Client, cfg *config.Config) Result {
	params := protocol.InitializeParams{
		ProtocolVersion: cfg.Tester.ProtocolVersion,
		Capabilities:    protocol.Capabilities{},
		ClientInfo: protocol.ClientInfo{
			Name:    cfg.Tester.ClientName,
			Version: cfg.Tester.ClientVersion,
		},
	}

	resp, err := client.SendRequest(protocol.MethodInitialize, params)
	if err != nil {
		return Result{Name: "initialize", Passed: false, Message: err.Error()}
	}
	if resp.HasError() {
		return Result{Name: "initialize", Passed: false, Message: fmt.Sprintf("error: %s", resp.Error.Message), Response: resp.RawMap()}
	}

	result, err := resp.ResultMap()
	if err != nil {
		return Result{Name: "initialize", Passed: false, Message: fmt.Sprintf("result is not an object: %v", err), Response: resp.RawMap()}
	}

	var missing []string
	for _, key := range []string{"protocolVersion", "serverInfo", "capabilities"} {
		if _, ok := result[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Result{
			Name:     "initialize",
			Passed:   false,
			Message:  fmt.Sprintf("missing keys in initialize result: %s", strings.Join(missing, ", ")),
			Response: resp.RawMap(),
		}
	}

	return Result{Name: "initialize", Passed: true, Message: "initialize response valid", Response: resp.RawMap()}
}

// probeListTools verifies that tools/list returns a tools list; an empty
// list passes.
func probeListTools(client *Client) Result {
	resp, err := client.SendRequest(protocol.MethodListTools, nil)
	if err != nil {
		return Result{Name: "tools/list", Passed: false, Message: err.Error()}
	}
	if resp.HasError() {
		return Result{Name: "tools/list", Passed: false, Message: fmt.Sprintf("error: %s", resp.Error.Message), Response: resp.RawMap()}
	}

	tools, err := toolsFromResponse(resp)
	if err != nil {
		return Result{Name: "tools/list", Passed: false, Message: err.Error(), Response: resp.RawMap()}
	}

	return Result{
		Name:     "tools/list",
		Passed:   true,
		Message:  fmt.Sprintf("found %d tools", len(tools)),
		Response: resp.RawMap(),
	}
}

// probeCallTool re-fetches the tool list and calls the first tool. A server
// with no tools records a passing skipped result.
func probeCallTool(client *Client) Result {
	resp, err := client.SendRequest(protocol.MethodListTools, nil)
	if err != nil {
		return Result{Name: "tools/call", Passed: false, Message: err.Error()}
	}

	tools, err := toolsFromResponse(resp)
	if err != nil {
		return Result{Name: "tools/call", Passed: false, Message: err.Error(), Response: resp.RawMap()}
	}
	if len(tools) == 0 {
		return Result{Name: "tools/call", Passed: true, Message: "no tools to test (skipped)"}
	}

	first, ok := tools[0].(map[string]interface{})
	if !ok {
		return Result{Name: "tools/call", Passed: false, Message: "first tool is not an object", Response: resp.RawMap()}
	}
	name, ok := first["name"].(string)
	if !ok || name == "" {
		return Result{Name: "tools/call", Passed: false, Message: "first tool has no name", Response: resp.RawMap()}
	}

	callResp, err := client.SendRequest(protocol.MethodCallTool, protocol.CallToolParams{
		Name:      name,
		Arguments: map[string]interface{}{"query": "test"},
	})
	if err != nil {
		return Result{Name: "tools/call", Passed: false, Message: err.Error()}
	}
	if callResp.HasError() {
		return Result{Name: "tools/call", Passed: false, Message: fmt.Sprintf("error: %s", callResp.Error.Message), Response: callResp.RawMap()}
	}

	result, err := callResp.ResultMap()
	if err != nil {
		return Result{Name: "tools/call", Passed: false, Message: fmt.Sprintf("result is not an object: %v", err), Response: callResp.RawMap()}
	}

	content, ok := result["content"].([]interface{})
	if !ok || len(content) == 0 {
		return Result{Name: "tools/call", Passed: false, Message: fmt.Sprintf("tool %q returned no content", name), Response: callResp.RawMap()}
	}

	return Result{
		Name:     "tools/call",
		Passed:   true,
		Message:  fmt.Sprintf("called %q successfully", name),
		Response: callResp.RawMap(),
	}
}

// probePing passes on any response carrying a result field, including an
// empty one.
func probePing(client *Client) Result {
	resp, err := client.SendRequest(protocol.MethodPing, nil)
	if err != nil {
		return Result{Name: "ping", Passed: false, Message: err.Error()}
	}
	if !resp.HasResult() {
		msg := "ping returned no result"
		if resp.HasError() {
			msg = fmt.Sprintf("error: %s", resp.Error.Message)
		}
		return Result{Name: "ping", Passed: false, Message: msg, Response: resp.RawMap()}
	}
	return Result{Name: "ping", Passed: true, Message: "ping OK", Response: resp.RawMap()}
}

// probeUnknownMethod asserts that the peer rejects a method guaranteed not
// to exist; a result instead of an error is a failure.
func probeUnknownMethod(client *Client) Result {
	resp, err := client.SendRequest(protocol.MethodUnknownProbe, nil)
	if err != nil {
		return Result{Name: "unknown_method", Passed: false, Message: err.Error()}
	}
	if !resp.HasError() {
		return Result{Name: "unknown_method", Passed: false, Message: "should have returned error for unknown method", Response: resp.RawMap()}
	}
	return Result{Name: "unknown_method", Passed: true, Message: "correctly returned error for unknown method", Response: resp.RawMap()}
}

// probeCheck runs one configured extra check: a request whose decoded
// response is inspected with a JSONPath expression.
func probeCheck(client *Client, check config.Check) Result {
	name := check.Name
	if name == "" {
		name = fmt.Sprintf("check %s %s", check.Method, check.Path)
	}

	var params interface{}
	if check.Params != nil {
		params = check.Params
	}

	resp, err := client.SendRequest(check.Method, params)
	if err != nil {
		return Result{Name: name, Passed: false, Message: err.Error()}
	}

	raw := resp.RawMap()
	if raw == nil {
		return Result{Name: name, Passed: false, Message: "response could not be decoded"}
	}

	value, err := jsonpath.JsonPathLookup(raw, check.Path)
	if err != nil {
		return Result{Name: name, Passed: false, Message: fmt.Sprintf("path %s did not resolve: %v", check.Path, err), Response: raw}
	}

	if check.Expect != nil && fmt.Sprint(value) != fmt.Sprint(check.Expect) {
		return Result{
			Name:     name,
			Passed:   false,
			Message:  fmt.Sprintf("expected %v at %s, got %v", check.Expect, check.Path, value),
			Response: raw,
		}
	}

	return Result{Name: name, Passed: true, Message: fmt.Sprintf("%s = %v", check.Path, value), Response: raw}
}

// toolsFromResponse extracts the tools list from a tools/list response
func toolsFromResponse(resp *protocol.Response) ([]interface{}, error) {
	result, err := resp.ResultMap()
	if err != nil {
		return nil, fmt.Errorf("result is not an object: %v", err)
	}
	tools, ok := result["tools"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("result.tools is missing or not a list")
	}
	return tools, nil
}
