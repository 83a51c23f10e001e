package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"raven/internal/diag"
	"raven/internal/source"
)

// MsgPack writes the same document as JSON in MessagePack encoding. Field
// names follow the json tags so both formats decode into DiagnosticsOutput.
func MsgPack(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	enc.SetOmitEmpty(true)
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

// DecodeMsgPack reads a document written by MsgPack.
func DecodeMsgPack(r io.Reader) (DiagnosticsOutput, error) {
	var out DiagnosticsOutput
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	err := dec.Decode(&out)
	return out, err
}
