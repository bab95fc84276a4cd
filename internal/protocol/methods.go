package protocol

// MCP Method Names
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
)

// MethodUnknownProbe is a method name guaranteed not to exist, used to
// assert that a peer rejects unknown methods.
const MethodUnknownProbe = "nonexistent/method"

// Methods returns the request methods a conformant server is expected to
// handle, in the order the test suite probes them.
func Methods() []string {
	return []string{
		MethodInitialize,
		MethodListTools,
		MethodCallTool,
		MethodPing,
	}
}
