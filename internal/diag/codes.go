package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexInvalidUTF8              Code = 1006

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynExpectSemicolon    Code = 2012
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectType         Code = 2202
	SynExpectExpression   Code = 2203
	SynExpectColon        Code = 2204

	// Семантические
	SemaInfo                Code = 3000
	SemaError               Code = 3001
	SemaDuplicateSymbol     Code = 3002
	SemaUnresolvedSymbol    Code = 3005
	SemaTypeMismatch        Code = 3015
	SemaDuplicateField      Code = 3016
	SemaUnknownField        Code = 3017
	SemaArgCountMismatch    Code = 3018
	SemaNotCallable         Code = 3019
	SemaNotAType            Code = 3020
	SemaTraitMismatch       Code = 3021
	SemaUnknownVariable     Code = 3022
	SemaEntrypointSignature Code = 3120
	SemaMissingReturn       Code = 3126
	SemaResolutionCycle     Code = 3127

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Ошибки проекта
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5012
	ProjNoSources       Code = 5013

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Pipeline
	PipTaskFailure Code = 6101

	// Backend authoring errors
	BckMissingType     Code = 9001
	BckUnknownVariable Code = 9002
	BckNotImplemented  Code = 9003
	BckMissingReturn   Code = 9004
	BckMissingFunction Code = 9005
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Invalid characters",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexInvalidUTF8:              "Invalid UTF-8 sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynExpectSemicolon:          "Expect semicolon",
		SynUnexpectedTopLevel:       "Unexpected top level",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectType:               "Expect type",
		SynExpectExpression:         "Expect expression",
		SynExpectColon:              "Expect colon",
		SemaInfo:                    "Semantic information",
		SemaError:                   "Semantic error",
		SemaDuplicateSymbol:         "Duplicate symbol",
		SemaUnresolvedSymbol:        "Unresolved symbol",
		SemaTypeMismatch:            "Type mismatch",
		SemaDuplicateField:          "Duplicate field",
		SemaUnknownField:            "Unknown field",
		SemaArgCountMismatch:        "Argument count mismatch",
		SemaNotCallable:             "Not callable",
		SemaNotAType:                "Not a type",
		SemaTraitMismatch:           "Trait implementation mismatch",
		SemaUnknownVariable:         "Unknown variable",
		SemaEntrypointSignature:     "Invalid entry point signature",
		SemaMissingReturn:           "Missing return",
		SemaResolutionCycle:         "Resolution cycle",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjInvalidManifest:         "Invalid project manifest",
		ProjNoSources:               "No source files",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		PipTaskFailure:              "Task failure",
		BckMissingType:              "Backend: missing type",
		BckUnknownVariable:          "Backend: unknown variable",
		BckNotImplemented:           "Backend: not implemented",
		BckMissingReturn:            "Backend: missing return",
		BckMissingFunction:          "Backend: missing function",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6100 && ic < 6200:
		return fmt.Sprintf("PIP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("BCK%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
