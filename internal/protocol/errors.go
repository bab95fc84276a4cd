package protocol

import (
	"errors"
	"fmt"
)

// Client-side transport error codes, in the JSON-RPC reserved range
const (
	// ErrorProcessStart means the peer process could not be launched.
	// Fatal to a test run.
	ErrorProcessStart = -32000

	// ErrorTransportClosed means a write was attempted on a dead pipe
	ErrorTransportClosed = -32001

	// ErrorNoResponse means a read hit end-of-stream where a reply was
	// expected
	ErrorNoResponse = -32002

	// ErrorMalformedResponse means the reply line could not be parsed as
	// the expected structure
	ErrorMalformedResponse = -32003
)

// ClientError represents a transport or framing failure on the client side
// of a conformance test run.
type ClientError struct {
	Code    int
	Message string
	Data    interface{}
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%s (data: %v)", e.Message, e.Data)
	}
	return e.Message
}

// NewProcessStartError creates an error for a peer that could not be launched
func NewProcessStartError(message string, data interface{}) *ClientError {
	return &ClientError{
		Code:    ErrorProcessStart,
		Message: message,
		Data:    data,
	}
}

// NewTransportClosedError creates an error for a write on a dead pipe
func NewTransportClosedError(message string, data interface{}) *ClientError {
	return &ClientError{
		Code:    ErrorTransportClosed,
		Message: message,
		Data:    data,
	}
}

// NewNoResponseError creates an error for an end-of-stream read
func NewNoResponseError(method string) *ClientError {
	return &ClientError{
		Code:    ErrorNoResponse,
		Message: fmt.Sprintf("no response from server for %s", method),
		Data:    map[string]string{"method": method},
	}
}

// NewMalformedResponseError creates an error for an unparseable reply line
func NewMalformedResponseError(message string, data interface{}) *ClientError {
	return &ClientError{
		Code:    ErrorMalformedResponse,
		Message: message,
		Data:    data,
	}
}

// codeOf extracts the client error code, or 0 for unrelated errors
func codeOf(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// IsProcessStart reports whether err is a process launch failure
func IsProcessStart(err error) bool { return codeOf(err) == ErrorProcessStart }

// IsTransportClosed reports whether err is a dead-pipe write failure
func IsTransportClosed(err error) bool { return codeOf(err) == ErrorTransportClosed }

// IsNoResponse reports whether err is an end-of-stream read
func IsNoResponse(err error) bool { return codeOf(err) == ErrorNoResponse }

// IsMalformedResponse reports whether err is an unparseable reply
func IsMalformedResponse(err error) bool { return codeOf(err) == ErrorMalformedResponse }
