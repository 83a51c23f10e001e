package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"struct": KwStruct,
	"trait":  KwTrait,
	"impl":   KwImpl,
	"for":    KwFor,
	"let":    KwLet,
	"return": KwReturn,
	"self":   KwSelf,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
