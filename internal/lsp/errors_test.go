package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeTable(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		value  int32
		name   string
		jsonrp bool
		lsp    bool
	}{
		{ParseError, -32700, "ParseError", false, false},
		{InvalidRequest, -32600, "InvalidRequest", false, false},
		{MethodNotFound, -32601, "MethodNotFound", false, false},
		{InvalidParams, -32602, "InvalidParams", false, false},
		{InternalError, -32603, "InternalError", false, false},
		{ServerNotInitialized, -32002, "ServerNotInitialized", true, false},
		{UnknownErrorCode, -32001, "UnknownErrorCode", true, false},
		{RequestFailed, -32803, "RequestFailed", false, true},
		{ServerCancelled, -32802, "ServerCancelled", false, true},
		{ContentModified, -32801, "ContentModified", false, true},
		{RequestCancelled, -32800, "RequestCancelled", false, true},
	}
	for _, tt := range tests {
		if int32(tt.code) != tt.value {
			t.Errorf("%s = %d, want %d", tt.name, int32(tt.code), tt.value)
		}
		if tt.code.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.code.String(), tt.name)
		}
		if tt.code.InJSONRPCReservedRange() != tt.jsonrp || tt.code.InLSPReservedRange() != tt.lsp {
			t.Errorf("%s: reserved ranges = %v/%v", tt.name, tt.code.InJSONRPCReservedRange(), tt.code.InLSPReservedRange())
		}
	}
	if ServerErrorStart != -32099 || ServerErrorEnd != -32000 || LSPReservedErrorRangeStart != -32899 || LSPReservedErrorRangeEnd != -32800 {
		t.Fatal("reserved range bounds changed")
	}
	if got := ErrorCode(7).String(); got != "ErrorCode(7)" {
		t.Fatalf("unknown code = %q", got)
	}
}

func TestResponseErrorJSON(t *testing.T) {
	b, err := json.Marshal(NewResponseError(MethodNotFound, "no method %q", "foo"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"code":-32601,"message":"no method \"foo\""}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	b, err = json.Marshal(&ResponseError{Code: InvalidParams, Message: "bad", Data: map[string]int{"index": 2}})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"code":-32602,"message":"bad","data":{"index":2}}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Fatal("nil error mapped to a response")
	}
	if got := FromError(fmt.Errorf("run: %w", context.Canceled)); got.Code != RequestCancelled {
		t.Fatalf("cancel code = %s", got.Code)
	}
	orig := NewResponseError(ContentModified, "stale")
	if got := FromError(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Fatalf("got %+v", got)
	}
	if got := FromError(errors.New("boom")); got.Code != InternalError || got.Message != "boom" {
		t.Fatalf("got %+v", got)
	}
	if got := orig.Error(); got != "ContentModified (-32801): stale" {
		t.Fatalf("Error() = %q", got)
	}
}
