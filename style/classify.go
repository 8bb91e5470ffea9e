package style

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ValueKind tells how a single style value has to be applied: literal values
// go inline, token values go through the class system. One value is never
// both.
type ValueKind int

const (
	// KindToken is a symbolic size/spacing/utility class.
	KindToken ValueKind = iota
	// KindLiteral is a color or measurement applied inline.
	KindLiteral
)

func (k ValueKind) String() string {
	if k == KindLiteral {
		return "literal"
	}
	return "token"
}

// tokenPrefixes is the recognized symbolic-class prefix family. A value
// matching one of these (and carrying no length unit) is applied via class.
var tokenPrefixes = []string{
	"text-", "padding-", "margin-", "background-", "font-",
	"rounded-", "shadow-", "border-",
	// shorthand spacing utilities produced by the template system
	"p-", "px-", "py-", "pt-", "pr-", "pb-", "pl-",
	"m-", "mx-", "my-", "mt-", "mr-", "mb-", "ml-",
}

// lengthUnits inside an otherwise symbolic value disqualify it from class
// application (constructed tokens like "text-[12px]" must not be treated as
// plain utilities).
var lengthUnits = []string{"px", "rem", "%"}

// Classify decides whether a single style value is a literal color/measure or
// a symbolic class token. The decision is made per property value - a style
// record legitimately mixes both kinds across its properties.
func Classify(v string) ValueKind {
	v = strings.TrimSpace(v)
	if v == "" {
		return KindToken
	}

	if strings.HasPrefix(v, "#") || strings.HasPrefix(v, "rgb") || strings.HasPrefix(v, "hsl") {
		return KindLiteral
	}

	if hasTokenPrefix(v) && !containsLengthUnit(v) {
		return KindToken
	}

	if isNumericLength(v) {
		return KindLiteral
	}

	// pass-through: everything else is applied as a class, including
	// constructed utilities like "text-[12px]" which are classes even
	// though they embed a unit
	return KindToken
}

func containsLengthUnit(v string) bool {
	for _, unit := range lengthUnits {
		if strings.Contains(v, unit) {
			return true
		}
	}
	return false
}

func hasTokenPrefix(v string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// isNumericLength lexes the value as CSS and accepts a single number,
// dimension or percentage token.
func isNumericLength(v string) bool {
	lexer := css.NewLexer(parse.NewInputString(v))
	tt, data := lexer.Next()
	switch tt {
	case css.NumberToken, css.DimensionToken, css.PercentageToken:
		if len(data) != len(v) {
			return false
		}
	default:
		return false
	}
	tt, _ = lexer.Next()
	return tt == css.ErrorToken // single token consumed the whole value
}
