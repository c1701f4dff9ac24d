// Package condexpr parses command-line condition expressions such as
// `id = 5 AND tag IN (1, 2)` into condition sets.
package condexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/spf13/cast"
)

// ExprLexer tokenizes condition expressions.
var ExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:AND|IN|NULL|TRUE|FALSE)\b`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Equal", Pattern: `=`},

	{Name: "String", Pattern: `'(?:[^']|'')*'|"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})

// Expression is a conjunction of terms.
type Expression struct {
	Pos   lexer.Position
	Terms []*Term `@@ ( "AND" @@ )*`
}

// Term is a single equality or membership test.
type Term struct {
	Pos    lexer.Position
	Column string   `@Ident`
	Equal  *Value   `( "=" @@`
	In     []*Value `| "IN" "(" ( @@ ( "," @@ )* )? ")" )`
}

// IsMembership reports whether the term is an IN list.
func (t *Term) IsMembership() bool {
	return t.Equal == nil
}

// Value is a literal.
type Value struct {
	Pos    lexer.Position
	Null   bool    `  @"NULL"`
	Bool   *string `| @( "TRUE" | "FALSE" )`
	Number *string `| @Number`
	String *string `| @String`
}

// Interface returns the Go value of the literal.
func (v *Value) Interface() (interface{}, error) {
	switch {
	case v.Null:
		return nil, nil
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "true"), nil
	case v.Number != nil:
		if strings.Contains(*v.Number, ".") {
			return cast.ToFloat64E(*v.Number)
		}
		return cast.ToInt64E(*v.Number)
	case v.String != nil:
		return unquote(*v.String)
	}
	return nil, fmt.Errorf("%s: empty value", v.Pos)
}

var parser = participle.MustBuild[Expression](
	participle.Lexer(ExprLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// Parse parses an expression into its syntax tree.
func Parse(input string) (*Expression, error) {
	return parser.ParseString("", input)
}

// ParseSet parses an expression into a condition set. Membership tests
// become slices; an empty list is kept as an empty slice.
func ParseSet(input string) (*conditions.Set, error) {
	set := conditions.New()
	if strings.TrimSpace(input) == "" {
		return set, nil
	}

	expr, err := Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", input, err)
	}

	for _, term := range expr.Terms {
		if _, dup := set.Get(term.Column); dup {
			return nil, fmt.Errorf("%s: column %s appears more than once", term.Pos, term.Column)
		}

		if !term.IsMembership() {
			v, err := term.Equal.Interface()
			if err != nil {
				return nil, err
			}
			set.Add(term.Column, v)
			continue
		}

		values := make([]interface{}, 0, len(term.In))
		for _, item := range term.In {
			v, err := item.Interface()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		set.Add(term.Column, values)
	}
	return set, nil
}

func unquote(s string) (string, error) {
	if strings.HasPrefix(s, `"`) {
		return strconv.Unquote(s)
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
}
