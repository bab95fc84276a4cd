package tester

import (
	"encoding/json"
	"fmt"
	"io"

	"mcp-forge/internal/jsonutil"
	"mcp-forge/internal/protocol"
)

// Client frames JSON-RPC 2.0 messages over a Transport. Requests are
// strictly sequential: one request is written, then exactly one reply line
// is read before the next request may be sent. Ids are monotonic and start
// at 1; there is no pipelining, so id correlation is never exercised
// concurrently.
type Client struct {
	transport *Transport
	nextID    int64
}

// NewClient creates a client over a started transport
func NewClient(t *Transport) *Client {
	return &Client{transport: t}
}

// SendRequest sends one request and blocks until its reply line arrives.
// End-of-stream maps to a no-response error, an unparseable line to a
// malformed-response error.
func (c *Client) SendRequest(method string, params interface{}) (*protocol.Response, error) {
	c.nextID++
	req := protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      c.nextID,
		Method:  method,
		Params:  params,
	}

	line, err := jsonutil.EncodeLine(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if err := c.transport.WriteLine(line); err != nil {
		return nil, err
	}

	reply, err := c.transport.ReadLine()
	if err == io.EOF {
		return nil, protocol.NewNoResponseError(method)
	}
	if err != nil {
		return nil, err
	}

	var resp protocol.Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return nil, protocol.NewMalformedResponseError("response is not valid JSON", map[string]string{
			"method": method,
			"error":  err.Error(),
		})
	}
	resp.Raw = append(json.RawMessage(nil), reply...)

	// A well-behaved peer echoes the request id. A null id is tolerated
	// since JSON-RPC permits it on error responses.
	if resp.ID != nil && !idMatches(resp.ID, c.nextID) {
		return nil, protocol.NewMalformedResponseError("response id does not match request", map[string]interface{}{
			"sent":     c.nextID,
			"received": resp.ID,
		})
	}

	return &resp, nil
}

// SendNotification sends one notification; no reply is read
func (c *Client) SendNotification(method string, params interface{}) error {
	note := protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  method,
		Params:  params,
	}

	line, err := jsonutil.EncodeLine(note)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return c.transport.WriteLine(line)
}

// idMatches compares an echoed id, which arrives as a float64 from the
// JSON decoder, against the id we sent.
func idMatches(echoed interface{}, sent int64) bool {
	switch v := echoed.(type) {
	case float64:
		return int64(v) == sent
	case int64:
		return v == sent
	case int:
		return int64(v) == sent
	default:
		return false
	}
}
