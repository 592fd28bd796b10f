package token

import "unicode"

type Type int

const (
	Ident Type = iota
	Number
	LBracket
	RBracket
	Comma
	Newline
	Invalid
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Comma:
		return "','"
	case Newline:
		return "end of line"
	case Invalid:
		return "invalid character"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits source into tokens. Runs of blank lines and comments
// collapse into a single Newline so every instruction ends with exactly one.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 1
	runes := []rune(input)

	newline := func() {
		if len(tokens) > 0 && tokens[len(tokens)-1].Type != Newline {
			tokens = append(tokens, Token{"\n", Newline, line})
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			newline()
			line++
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		// Line comment
		if r == '#' {
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
			continue
		}

		switch r {
		case '[':
			tokens = append(tokens, Token{"[", LBracket, line})
			continue
		case ']':
			tokens = append(tokens, Token{"]", RBracket, line})
			continue
		case ',':
			tokens = append(tokens, Token{",", Comma, line})
			continue
		}

		// Number with optional sign, exponent and f suffix. Letters are kept so
		// signed inf and malformed literals reach the parser whole.
		if r == '-' || r == '+' || r == '.' || unicode.IsDigit(r) {
			start := i
			i++
			for i < len(runes) {
				c := runes[i]
				prev := runes[i-1]
				if unicode.IsDigit(c) || unicode.IsLetter(c) || c == '.' ||
					((c == '-' || c == '+') && (prev == 'e' || prev == 'E')) {
					i++
				} else {
					break
				}
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, line})
			i--
			continue
		}

		// Identifier: op names, raw @N op ids, inf and nan
		if r == '@' || r == '_' || unicode.IsLetter(r) {
			start := i
			i++
			for i < len(runes) {
				c := runes[i]
				if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.' {
					i++
				} else {
					break
				}
			}
			tokens = append(tokens, Token{string(runes[start:i]), Ident, line})
			i--
			continue
		}

		tokens = append(tokens, Token{string(r), Invalid, line})
	}

	newline()
	return tokens
}
