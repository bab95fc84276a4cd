// Package protocol defines the JSON-RPC 2.0 and MCP wire types used by the
// conformance test client and the interactive console.
package protocol

import "encoding/json"

// JSONRPCVersion is the JSON-RPC version string carried by every message.
const JSONRPCVersion = "2.0"

// MCPProtocolVersion is the MCP protocol version the tester advertises.
const MCPProtocolVersion = "2024-11-05"

// Request represents a JSON-RPC 2.0 request. A zero ID marks a
// notification and is omitted from the wire encoding.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result or
// Error is expected from a well-behaved peer; both are kept raw so probes
// can distinguish "absent" from "present but empty".
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`

	// Raw holds the complete reply line as received, for reporting.
	Raw json.RawMessage `json:"-"`
}

// RPCError represents a JSON-RPC 2.0 error object
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HasResult reports whether the response carries a result field, including
// an empty or null one.
func (r *Response) HasResult() bool {
	return len(r.Result) > 0
}

// HasError reports whether the response carries an error object
func (r *Response) HasError() bool {
	return r.Error != nil
}

// ResultMap decodes the result field into a generic mapping. It returns an
// empty map when the result is absent.
func (r *Response) ResultMap() (map[string]interface{}, error) {
	if !r.HasResult() {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(r.Result, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// RawMap decodes the full reply line into a generic mapping for report
// attachments. Returns nil if the raw line is unavailable or undecodable.
func (r *Response) RawMap() map[string]interface{} {
	if len(r.Raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(r.Raw, &m); err != nil {
		return nil
	}
	return m
}

// JSON-RPC 2.0 Standard Error Codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// ClientInfo holds information about the client
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo holds information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities defines what features a peer supports
type Capabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
}

// ToolsCapability indicates tools support
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// PromptsCapability indicates prompts support
type PromptsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability indicates resources support
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeParams represents the params of an initialize request
type InitializeParams struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ClientInfo      ClientInfo   `json:"clientInfo"`
}

// CallToolParams represents the params of a tools/call request
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// Tool represents an MCP tool definition as listed by a peer
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}
