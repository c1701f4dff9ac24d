package sqlgen

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/satishbabariya/sqlcrud/query/conditions"
)

// ErrUnterminated is returned when a quoted string or block comment in a
// query is never closed.
var ErrUnterminated = errors.New("unterminated quote or comment")

// MissingParamError is returned when a query references a named parameter
// that has no bound value.
type MissingParamError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing value for :%s", e.Name)
}

// binder accumulates positional arguments and renders dialect placeholders.
type binder struct {
	numbered         bool
	backslashEscapes bool
	args             []interface{}
}

// next appends an argument and returns its placeholder.
func (b *binder) next(v interface{}) string {
	b.args = append(b.args, v)
	if b.numbered {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// bindNamed rewrites :name tokens of query into positional placeholders.
// Sequence values expand to one placeholder per element; an empty sequence
// becomes NULL so "IN (NULL)" matches nothing. Quoted strings, comments and
// PostgreSQL "::" casts are left untouched.
func (b *binder) bindNamed(query string, params *conditions.Set) (string, error) {
	var out strings.Builder
	out.Grow(len(query) + 16)

	i := 0
	for i < len(query) {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j, err := skipQuoted(query, i, b.backslashEscapes)
			if err != nil {
				return "", err
			}
			out.WriteString(query[i:j])
			i = j
			continue
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			j := strings.IndexByte(query[i:], '\n')
			if j < 0 {
				j = len(query) - i
			}
			out.WriteString(query[i : i+j])
			i += j
			continue
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			j := strings.Index(query[i+2:], "*/")
			if j < 0 {
				return "", ErrUnterminated
			}
			end := i + 2 + j + 2
			out.WriteString(query[i:end])
			i = end
			continue
		case c == ':' && strings.HasPrefix(query[i:], "::"):
			out.WriteString("::")
			i += 2
			continue
		case c == ':':
			name, end := parseIdent(query, i+1)
			if name == "" {
				break
			}
			value, ok := params.Get(name)
			if !ok {
				return "", &MissingParamError{Name: name}
			}
			out.WriteString(b.expand(value))
			i = end
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), nil
}

func (b *binder) expand(value interface{}) string {
	if !conditions.IsSequence(value) {
		return b.next(value)
	}
	rv := reflect.ValueOf(value)
	if rv.Len() == 0 {
		return "NULL"
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = b.next(rv.Index(i).Interface())
	}
	return strings.Join(parts, ", ")
}

// skipQuoted returns the index just past the quoted section starting at i.
// A doubled quote character is an escaped quote. With backslashEscapes a
// backslash also escapes the next character, except inside backticks.
func skipQuoted(query string, i int, backslashEscapes bool) (int, error) {
	q := query[i]
	j := i + 1
	for j < len(query) {
		if query[j] == q {
			if j+1 < len(query) && query[j+1] == q {
				j += 2
				continue
			}
			return j + 1, nil
		}
		if backslashEscapes && query[j] == '\\' && q != '`' {
			j += 2
			continue
		}
		j++
	}
	return 0, ErrUnterminated
}

func parseIdent(query string, start int) (string, int) {
	end := start
	for end < len(query) {
		c := query[end]
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if isLetter || (isDigit && end > start) {
			end++
			continue
		}
		break
	}
	return query[start:end], end
}
