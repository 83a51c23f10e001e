package lsp

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode is a JSON-RPC or LSP error code.
type ErrorCode int32

// Defined by JSON-RPC.
const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

const (
	// JSONRPCReservedErrorRangeStart is not a real error code. No LSP codes live
	// between the start and the end of this range, except ServerNotInitialized
	// and UnknownErrorCode which stay there for compatibility.
	JSONRPCReservedErrorRangeStart ErrorCode = -32099
	// Deprecated: use JSONRPCReservedErrorRangeStart.
	ServerErrorStart = JSONRPCReservedErrorRangeStart

	// ServerNotInitialized: a notification or request arrived before initialize.
	ServerNotInitialized ErrorCode = -32002
	UnknownErrorCode     ErrorCode = -32001

	JSONRPCReservedErrorRangeEnd ErrorCode = -32000
	// Deprecated: use JSONRPCReservedErrorRangeEnd.
	ServerErrorEnd = JSONRPCReservedErrorRangeEnd

	LSPReservedErrorRangeStart ErrorCode = -32899

	// RequestFailed: the request was well formed but failed.
	RequestFailed ErrorCode = -32803
	// ServerCancelled: the server cancelled a request that supports it.
	ServerCancelled ErrorCode = -32802
	// ContentModified: the document changed outside normal conditions.
	ContentModified ErrorCode = -32801
	// RequestCancelled: the client cancelled and the server noticed.
	RequestCancelled ErrorCode = -32800

	LSPReservedErrorRangeEnd ErrorCode = -32800
)

var codeNames = map[ErrorCode]string{
	ParseError:           "ParseError",
	InvalidRequest:       "InvalidRequest",
	MethodNotFound:       "MethodNotFound",
	InvalidParams:        "InvalidParams",
	InternalError:        "InternalError",
	ServerNotInitialized: "ServerNotInitialized",
	UnknownErrorCode:     "UnknownErrorCode",
	RequestFailed:        "RequestFailed",
	ServerCancelled:      "ServerCancelled",
	ContentModified:      "ContentModified",
	RequestCancelled:     "RequestCancelled",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int32(c))
}

// InJSONRPCReservedRange reports whether c lies in [-32099, -32000].
func (c ErrorCode) InJSONRPCReservedRange() bool {
	return c >= JSONRPCReservedErrorRangeStart && c <= JSONRPCReservedErrorRangeEnd
}

// InLSPReservedRange reports whether c lies in [-32899, -32800].
func (c ErrorCode) InLSPReservedRange() bool {
	return c >= LSPReservedErrorRangeStart && c <= LSPReservedErrorRangeEnd
}

// ResponseError is the error object of a JSON-RPC response.
// Data опускается, если не задан.
type ResponseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, int32(e.Code), e.Message)
}

// NewResponseError builds a ResponseError without data.
func NewResponseError(code ErrorCode, format string, args ...any) *ResponseError {
	return &ResponseError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FromError picks the code for a Go error: cancellation maps to RequestCancelled,
// an existing *ResponseError is returned as is, everything else is InternalError.
func FromError(err error) *ResponseError {
	if err == nil {
		return nil
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ResponseError{Code: RequestCancelled, Message: err.Error()}
	}
	return &ResponseError{Code: InternalError, Message: err.Error()}
}
