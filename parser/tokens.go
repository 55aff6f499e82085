package parser

import (
	"regexp"
	"strings"
)

// tokenKind tags a lexical token.
type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokQuotedIdent
	tokString
	tokInt
	tokPunct
)

// token is one lexical unit. text is the token's literal span,
// unquoted for tokQuotedIdent/tokString.
type token struct {
	kind tokenKind
	text string
}

// tokenRe matches exactly one token (or run of whitespace) anchored
// at the start of the remaining input. Group order:
//  1. whitespace (discarded)
//  2. single-quoted string literal
//  3. double-quoted identifier
//  4. integer literal
//  5. bare identifier / keyword
//  6. punctuation: ( ) , * and the comparison operators = < > <= >= != <>
var tokenRe = regexp.MustCompile(
	`^(?:(\s+)|('[^']*')|("[^"]*")|(\d+)|([A-Za-z_]\w*)|(<=|>=|!=|<>|[(),*=<>]))`,
)

// tokenize splits input into tokens per spec.md §4.F's lexical rules.
// It returns ErrSyntax on any byte it cannot classify.
func tokenize(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(input) {
		loc := tokenRe.FindStringSubmatchIndex(input[pos:])
		if loc == nil {
			return nil, ErrSyntax
		}
		matchEnd := loc[1]
		switch {
		case loc[2] >= 0: // whitespace
		case loc[4] >= 0: // 'string'
			s := input[pos:][loc[4]:loc[5]]
			tokens = append(tokens, token{kind: tokString, text: s[1 : len(s)-1]})
		case loc[6] >= 0: // "ident"
			s := input[pos:][loc[6]:loc[7]]
			tokens = append(tokens, token{kind: tokQuotedIdent, text: s[1 : len(s)-1]})
		case loc[8] >= 0: // integer
			tokens = append(tokens, token{kind: tokInt, text: input[pos:][loc[8]:loc[9]]})
		case loc[10] >= 0: // ident / keyword
			tokens = append(tokens, token{kind: tokIdent, text: input[pos:][loc[10]:loc[11]]})
		case loc[12] >= 0: // punctuation / operator
			tokens = append(tokens, token{kind: tokPunct, text: input[pos:][loc[12]:loc[13]]})
		}
		pos += matchEnd
	}
	return tokens, nil
}

// keyword reports whether tok is an unquoted identifier equal to kw,
// case-insensitively (spec.md §4.F: "case-insensitive keywords").
func (t token) keyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

// name returns the identifier text for plain or quoted identifiers.
func (t token) name() (string, bool) {
	if t.kind == tokIdent || t.kind == tokQuotedIdent {
		return t.text, true
	}
	return "", false
}
