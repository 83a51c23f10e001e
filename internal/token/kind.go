package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a run of bytes that start no valid token (InvalidCharacters).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwTrait represents the 'trait' keyword.
	KwTrait // trait
	// KwImpl represents the 'impl' keyword.
	KwImpl // impl
	// KwFor represents the 'for' keyword (impl headers only).
	KwFor // for
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwSelf represents the 'self' receiver.
	KwSelf // self

	// IntLit represents a decimal integer literal.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	Arrow      // ->
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
)

var kindNames = [...]string{
	Invalid:    "InvalidCharacters",
	EOF:        "EOF",
	Ident:      "Ident",
	KwFn:       "fn",
	KwStruct:   "struct",
	KwTrait:    "trait",
	KwImpl:     "impl",
	KwFor:      "for",
	KwLet:      "let",
	KwReturn:   "return",
	KwSelf:     "self",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Assign:     "=",
	Colon:      ":",
	ColonColon: "::",
	Semicolon:  ";",
	Comma:      ",",
	Dot:        ".",
	Arrow:      "->",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
