package lsp

import (
	"io"

	"raven/internal/diag"
	"raven/internal/source"
)

// SourceName is reported in the source field of every diagnostic.
const SourceName = "raven"

// DiagnosticError is the data payload of a ResponseError built from a diagnostic.
type DiagnosticError struct {
	URI        string     `json:"uri,omitempty"`
	Diagnostic Diagnostic `json:"diagnostic"`
}

func severity(s diag.Severity) DiagnosticSeverity {
	switch s {
	case diag.SevError:
		return SeverityError
	case diag.SevWarning:
		return SeverityWarning
	default:
		return SeverityInformation
	}
}

func located(fs *source.FileSet, sp source.Span) *source.File {
	if sp == (source.Span{}) {
		return nil
	}
	return fs.Get(sp.File)
}

// ConvertDiagnostic maps d to its LSP form. uri is empty when d carries no location.
func ConvertDiagnostic(fs *source.FileSet, d *diag.Diagnostic) (uri string, out Diagnostic) {
	out = Diagnostic{
		Severity: severity(d.Severity),
		Code:     d.Code.ID(),
		Source:   SourceName,
		Message:  d.Message,
	}
	if f := located(fs, d.Primary); f != nil {
		uri = fileURI(fs, f)
		out.Range = rangeForSpan(f, d.Primary)
	}
	for _, n := range d.Notes {
		f := located(fs, n.Span)
		if f == nil {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, DiagnosticRelatedInformation{
			Location: Location{URI: fileURI(fs, f), Range: rangeForSpan(f, n.Span)},
			Message:  n.Msg,
		})
	}
	return uri, out
}

// errorCode выбирает код для диагностики без файла: сбой задачи считается
// внутренней ошибкой, остальное - неудачным запросом.
func errorCode(c diag.Code) ErrorCode {
	if c == diag.PipTaskFailure {
		return InternalError
	}
	return RequestFailed
}

// ResponseErrorFor wraps d into a ResponseError with the LSP diagnostic as data.
func ResponseErrorFor(fs *source.FileSet, d *diag.Diagnostic) *ResponseError {
	uri, ld := ConvertDiagnostic(fs, d)
	return &ResponseError{
		Code:    errorCode(d.Code),
		Message: d.Code.ID() + ": " + d.Message,
		Data:    DiagnosticError{URI: uri, Diagnostic: ld},
	}
}

// PublishParams groups located diagnostics per document in bag order.
// Diagnostics without a location are returned separately.
func PublishParams(bag *diag.Bag, fs *source.FileSet) (params []PublishDiagnosticsParams, detached []diag.Diagnostic) {
	index := make(map[string]int)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		uri, ld := ConvertDiagnostic(fs, d)
		if uri == "" {
			detached = append(detached, *d)
			continue
		}
		at, ok := index[uri]
		if !ok {
			at = len(params)
			index[uri] = at
			params = append(params, PublishDiagnosticsParams{URI: uri})
		}
		params[at].Diagnostics = append(params[at].Diagnostics, ld)
	}
	return params, detached
}

// Write emits one framed publishDiagnostics notification per document,
// then one framed error response (id null) per diagnostic without a location.
func Write(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	params, detached := PublishParams(bag, fs)
	for _, p := range params {
		msg := Message{JSONRPC: jsonrpcVersion, Method: methodPublishDiagnostics, Params: p}
		if err := WriteJSON(w, msg); err != nil {
			return err
		}
	}
	for i := range detached {
		msg := Message{JSONRPC: jsonrpcVersion, ID: nullID, Error: ResponseErrorFor(fs, &detached[i])}
		if err := WriteJSON(w, msg); err != nil {
			return err
		}
	}
	return nil
}
