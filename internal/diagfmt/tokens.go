package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"raven/internal/source"
	"raven/internal/token"
)

// BlockOutput describes the innermost code block of a token.
type BlockOutput struct {
	StartLine uint32 `json:"start_line"`
	Depth     uint32 `json:"depth"`
}

type TokenOutput struct {
	Kind  string         `json:"kind"`
	Text  string         `json:"text,omitempty"`
	Span  source.Span    `json:"span"`
	Start source.LineCol `json:"start"`
	End   source.LineCol `json:"end"`
	Block *BlockOutput   `json:"block,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", tok.Start.Line, tok.Start.Col, tok.End.Line, tok.End.Col)
		if tok.Block != nil {
			fmt.Fprintf(w, " (block: line %d, depth %d)", tok.Block.StartLine, tok.Block.Depth)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Span:  tok.Span,
			Start: tok.Start,
			End:   tok.End,
		}
		if tok.Block != nil {
			out.Block = &BlockOutput{StartLine: tok.Block.StartLine, Depth: tok.Block.Depth}
		}
		output = append(output, out)

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
