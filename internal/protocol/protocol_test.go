package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_WireShape(t *testing.T) {
	req := Request{
		JSONRPC: JSONRPCVersion,
		ID:      1,
		Method:  MethodInitialize,
		Params: InitializeParams{
			ProtocolVersion: MCPProtocolVersion,
			Capabilities:    Capabilities{},
			ClientInfo:      ClientInfo{Name: "tester", Version: "0.1"},
		},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "2.0", wire["jsonrpc"])
	assert.Equal(t, float64(1), wire["id"])
	assert.Equal(t, "initialize", wire["method"])

	params := wire["params"].(map[string]interface{})
	assert.Equal(t, MCPProtocolVersion, params["protocolVersion"])
	// Empty capabilities must serialize as an object, not be dropped
	assert.Equal(t, map[string]interface{}{}, params["capabilities"])
}

func TestRequest_NotificationOmitsID(t *testing.T) {
	note := Request{JSONRPC: JSONRPCVersion, Method: MethodInitialized}

	data, err := json.Marshal(note)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	_, hasID := wire["id"]
	assert.False(t, hasID)
	_, hasParams := wire["params"]
	assert.False(t, hasParams)
}

func TestResponse_ResultErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		hasResult bool
		hasError  bool
	}{
		{name: "result object", line: `{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`, hasResult: true},
		{name: "empty result", line: `{"jsonrpc":"2.0","id":1,"result":{}}`, hasResult: true},
		{name: "null result", line: `{"jsonrpc":"2.0","id":1,"result":null}`, hasResult: true},
		{name: "error", line: `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"nope"}}`, hasError: true},
		{name: "neither", line: `{"jsonrpc":"2.0","id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp Response
			require.NoError(t, json.Unmarshal([]byte(tt.line), &resp))
			assert.Equal(t, tt.hasResult, resp.HasResult())
			assert.Equal(t, tt.hasError, resp.HasError())
		})
	}
}

func TestResponse_ResultMap(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal(
		[]byte(`{"jsonrpc":"2.0","id":3,"result":{"tools":[]}}`), &resp))

	m, err := resp.ResultMap()
	require.NoError(t, err)
	assert.Contains(t, m, "tools")

	// Non-object results surface a decode error
	require.NoError(t, json.Unmarshal(
		[]byte(`{"jsonrpc":"2.0","id":4,"result":[1,2]}`), &resp))
	_, err = resp.ResultMap()
	assert.Error(t, err)
}

func TestResponse_RawMap(t *testing.T) {
	line := []byte(`{"jsonrpc":"2.0","id":5,"result":{}}`)
	var resp Response
	require.NoError(t, json.Unmarshal(line, &resp))
	resp.Raw = line

	m := resp.RawMap()
	require.NotNil(t, m)
	assert.Equal(t, float64(5), m["id"])

	empty := Response{}
	assert.Nil(t, empty.RawMap())
}

func TestClientError_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{name: "process start", err: NewProcessStartError("boom", nil), want: IsProcessStart},
		{name: "transport closed", err: NewTransportClosedError("dead pipe", nil), want: IsTransportClosed},
		{name: "no response", err: NewNoResponseError("ping"), want: IsNoResponse},
		{name: "malformed", err: NewMalformedResponseError("bad line", nil), want: IsMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want(tt.err))
			// Classification survives wrapping
			wrapped := fmt.Errorf("probe failed: %w", tt.err)
			assert.True(t, tt.want(wrapped))
		})
	}
}

func TestClientError_DisjointKinds(t *testing.T) {
	err := NewNoResponseError("tools/list")
	assert.False(t, IsProcessStart(err))
	assert.False(t, IsTransportClosed(err))
	assert.False(t, IsMalformedResponse(err))
	assert.False(t, IsNoResponse(errors.New("plain error")))
}

func TestClientError_Message(t *testing.T) {
	err := NewNoResponseError("tools/list")
	assert.Contains(t, err.Error(), "no response from server for tools/list")
}
