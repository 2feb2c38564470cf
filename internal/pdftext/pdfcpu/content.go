package pdfcpu

import (
	"strings"
	"unicode/utf16"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokOperator
	tokOther
)

// TextFromContent returns the text shown by Tj, TJ, ' and " operators in a page
// content stream. Line moves and text object ends become newlines.
func TextFromContent(content []byte) string {
	var sb strings.Builder
	var operands []string
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}

	s := &scanner{buf: content}
	for {
		kind, tok := s.next()
		switch kind {
		case tokEOF:
			newline()
			return sb.String()
		case tokString:
			operands = append(operands, tok)
			continue
		case tokOther:
			continue
		}

		switch tok {
		case "Tj", "TJ":
			for _, o := range operands {
				sb.WriteString(o)
			}
		case "'", `"`:
			newline()
			for _, o := range operands {
				sb.WriteString(o)
			}
		case "T*", "Td", "TD", "ET":
			newline()
		case "ID":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}
}

type scanner struct {
	buf []byte
	pos int
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) next() (tokenKind, string) {
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		switch {
		case isWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' && s.buf[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return tokString, decodeText(s.literal())
		case c == '<':
			if s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '<' {
				s.pos += 2
				return tokOther, "<<"
			}
			s.pos++
			return tokString, decodeText(s.hex())
		case c == '>' && s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '>':
			s.pos += 2
			return tokOther, ">>"
		case c == '/':
			s.pos++
			s.word()
			return tokOther, ""
		case isDelim(c):
			s.pos++
			return tokOther, string(c)
		default:
			w := s.word()
			if isNumber(w) {
				return tokOther, w
			}
			return tokOperator, w
		}
	}
	return tokEOF, ""
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.buf) && !isWhite(s.buf[s.pos]) && !isDelim(s.buf[s.pos]) {
		s.pos++
	}
	return string(s.buf[start:s.pos])
}

func isNumber(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}

// literal reads a literal string body; the opening parenthesis is already consumed.
func (s *scanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if s.pos >= len(s.buf) {
				return out
			}
			e := s.buf[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '7'; i++ {
						v = v*8 + int(s.buf[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a hex string body; the opening angle bracket is already consumed.
func (s *scanner) hex() []byte {
	var out []byte
	var hi byte
	half := false
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage advances past inline image data up to and including the EI operator.
func (s *scanner) skipInlineImage() {
	for s.pos+2 < len(s.buf) {
		if isWhite(s.buf[s.pos]) && s.buf[s.pos+1] == 'E' && s.buf[s.pos+2] == 'I' &&
			(s.pos+3 == len(s.buf) || isWhite(s.buf[s.pos+3]) || isDelim(s.buf[s.pos+3])) {
			s.pos += 3
			return
		}
		s.pos++
	}
	s.pos = len(s.buf)
}

// decodeText maps string bytes to text: UTF-16BE when a byte order mark is
// present, otherwise one rune per byte.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		u := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
