package ddl

import (
	"strings"
	"unicode"

	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenPunct
)

type token struct {
	kind tokenKind
	text string // identifiers keep their original case
	pos  int
}

// upper returns the keyword form of an identifier token.
func (t token) upper() string {
	return strings.ToUpper(t.text)
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokenIdent && t.upper() == kw
}

func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	n := len(input)
	for i < n {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '`':
			// Quoted identifier.
			j := strings.IndexByte(input[i+1:], '`')
			if j < 0 {
				return nil, status.Errorf(status.InvalidArgument,
					"unterminated quoted identifier at offset %d", i)
			}
			toks = append(toks, token{kind: tokenIdent, text: input[i+1 : i+1+j], pos: i})
			i += j + 2
		case c == '_' || unicode.IsLetter(c):
			j := i + 1
			for j < n && (input[j] == '_' || isAlnum(input[j])) {
				j++
			}
			toks = append(toks, token{kind: tokenIdent, text: input[i:j], pos: i})
			i = j
		case unicode.IsDigit(c):
			j := i + 1
			for j < n && unicode.IsDigit(rune(input[j])) {
				j++
			}
			toks = append(toks, token{kind: tokenNumber, text: input[i:j], pos: i})
			i = j
		case strings.ContainsRune("(),<>=", c):
			toks = append(toks, token{kind: tokenPunct, text: string(c), pos: i})
			i++
		default:
			return nil, status.Errorf(status.InvalidArgument,
				"unexpected character %q in DDL at offset %d", c, i)
		}
	}
	toks = append(toks, token{kind: tokenEOF, pos: n})
	return toks, nil
}

func isAlnum(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
