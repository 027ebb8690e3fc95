package pdf

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// tjSpace is the TJ displacement, in thousandths of an em, treated as a word gap.
const tjSpace = -200

// showText returns the text drawn by a content stream's text-showing
// operators (Tj, TJ, ' and "). Line moves and text object ends become
// newlines. Glyph codes are read as single bytes, which is right for the
// standard simple fonts and lossy for composite ones.
func showText(stream []byte) string {
	var (
		out     strings.Builder
		line    strings.Builder
		operand []token
	)

	flush := func() {
		s := strings.TrimRight(line.String(), " ")
		if s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}

	lex := lexer{src: stream}
	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		if tok.kind != kindOperator {
			operand = append(operand, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			writeStrings(&line, operand)
		case "TJ":
			writeArray(&line, operand)
		case "'", "\"":
			flush()
			writeStrings(&line, operand)
		case "T*", "ET":
			flush()
		case "Td", "TD":
			if len(operand) >= 2 && operand[len(operand)-1].text != "0" {
				flush()
			} else if line.Len() > 0 {
				line.WriteByte(' ')
			}
		}
		operand = operand[:0]
	}
	flush()

	return strings.TrimRight(out.String(), "\n")
}

func writeStrings(b *strings.Builder, operand []token) {
	for _, t := range operand {
		if t.kind == kindString {
			b.WriteString(t.text)
		}
	}
}

func writeArray(b *strings.Builder, operand []token) {
	for _, t := range operand {
		switch t.kind {
		case kindString:
			b.WriteString(t.text)
		case kindNumber:
			if n, err := strconv.ParseFloat(t.text, 64); err == nil && n <= tjSpace {
				b.WriteByte(' ')
			}
		}
	}
}

type tokenKind int

const (
	kindOperator tokenKind = iota
	kindString
	kindNumber
	kindOther
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits a content stream into the tokens showText cares about.
// Arrays are flattened: their elements are emitted as ordinary operands.
type lexer struct {
	src []byte
	pos int
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c), c == '[', c == ']':
			l.pos++
		case c == '%':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			return token{kind: kindString, text: l.literal()}, true
		case c == '<':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '<' {
				l.pos += 2
				return token{kind: kindOther, text: "<<"}, true
			}
			return token{kind: kindString, text: l.hexString()}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.src) && l.src[l.pos] == '>' {
				l.pos++
			}
			return token{kind: kindOther, text: ">>"}, true
		case c == '/':
			start := l.pos
			l.pos++
			l.word()
			return token{kind: kindOther, text: string(l.src[start:l.pos])}, true
		default:
			start := l.pos
			l.word()
			if l.pos == start {
				l.pos++
				continue
			}
			w := string(l.src[start:l.pos])
			if isNumber(w) {
				return token{kind: kindNumber, text: w}, true
			}
			return token{kind: kindOperator, text: w}, true
		}
	}
	return token{}, false
}

func (l *lexer) word() {
	for l.pos < len(l.src) && !isSpace(l.src[l.pos]) && !isDelim(l.src[l.pos]) {
		l.pos++
	}
}

// literal reads a (string) with balanced parentheses and backslash escapes.
func (l *lexer) literal() string {
	var b strings.Builder
	depth := 0
	l.pos++ // (
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.src) {
				return b.String()
			}
			e := l.src[l.pos]
			l.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '7'; i++ {
						v = v*8 + int(l.src[l.pos]-'0')
						l.pos++
					}
					b.WriteRune(rune(byte(v)))
				} else {
					b.WriteByte(e)
				}
			}
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			if depth == 0 {
				return b.String()
			}
			depth--
			b.WriteByte(c)
		default:
			b.WriteRune(rune(c))
		}
	}
	return b.String()
}

func (l *lexer) hexString() string {
	l.pos++ // <
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '>' {
		l.pos++
	}
	digits := strings.Map(func(r rune) rune {
		if isSpace(byte(r)) {
			return -1
		}
		return r
	}, string(l.src[start:l.pos]))
	l.pos++ // >

	if len(digits)%2 == 1 {
		digits += "0"
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isNumber(w string) bool {
	_, err := strconv.ParseFloat(w, 64)
	return err == nil
}
