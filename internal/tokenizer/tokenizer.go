// Package tokenizer splits JSON text into tokens.
//
// Tokens are produced lazily: Peek and Next scan only as far as they need to,
// so the first lexical error surfaces in document order. Tokenize scans the
// whole input up front.
package tokenizer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsontree/internal/errors"
)

const eof = -1

// Tokenizer reads runes from a source and turns them into tokens.
// A Tokenizer is meant for a single parse and is not safe for concurrent use.
type Tokenizer struct {
	reader io.RuneReader
	offset int

	// one-slot pushback
	saved    rune
	isUnread bool

	pending []Token
	done    bool
	err     error
}

// New returns a Tokenizer reading from r.
func New(r io.Reader) *Tokenizer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Tokenizer{reader: rr}
}

// NewString returns a Tokenizer over s.
func NewString(s string) *Tokenizer {
	return New(strings.NewReader(s))
}

// Next consumes and returns the next token. Once the input is exhausted it
// keeps returning an EndOfInput token.
func (t *Tokenizer) Next() (Token, error) {
	if err := t.fill(0); err != nil {
		return Token{}, err
	}
	if len(t.pending) == 0 {
		return Token{Kind: EndOfInput}, nil
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

// Peek returns the token offset positions ahead without consuming anything.
// Looking past the end of input yields EndOfInput.
func (t *Tokenizer) Peek(offset int) (Token, error) {
	if err := t.fill(offset); err != nil {
		return Token{}, err
	}
	if offset >= len(t.pending) {
		return Token{Kind: EndOfInput}, nil
	}
	return t.pending[offset], nil
}

// HasNext reports whether a token other than EndOfInput is pending.
func (t *Tokenizer) HasNext() (bool, error) {
	tok, err := t.Peek(0)
	if err != nil {
		return false, err
	}
	return tok.Kind != EndOfInput, nil
}

// Tokenize scans the rest of the input and returns every pending token,
// ending with EndOfInput. The tokens stay pending for Next and Peek.
func (t *Tokenizer) Tokenize() ([]Token, error) {
	for !t.done {
		if err := t.fill(len(t.pending)); err != nil {
			return nil, err
		}
	}
	tokens := make([]Token, len(t.pending))
	copy(tokens, t.pending)
	return tokens, nil
}

// Offset returns the number of runes consumed from the source.
func (t *Tokenizer) Offset() int {
	return t.offset
}

// fill scans until at least n+1 tokens are pending or the input ends.
func (t *Tokenizer) fill(n int) error {
	for len(t.pending) <= n && !t.done {
		if t.err != nil {
			return t.err
		}
		tok, err := t.scan()
		if err != nil {
			t.err = err
			return err
		}
		t.pending = append(t.pending, tok)
		if tok.Kind == EndOfInput {
			t.done = true
		}
	}
	return t.err
}

func (t *Tokenizer) read() (rune, error) {
	if t.isUnread {
		t.isUnread = false
		if t.saved != eof {
			t.offset++
		}
		return t.saved, nil
	}
	r, _, err := t.reader.ReadRune()
	if err == io.EOF {
		r = eof
	} else if err != nil {
		return 0, err
	} else {
		t.offset++
	}
	t.saved = r
	return r, nil
}

func (t *Tokenizer) unread() {
	t.isUnread = true
	if t.saved != eof {
		t.offset--
	}
}

func (t *Tokenizer) fail(message string) error {
	return errors.NewParseError(message, t.offset)
}

func (t *Tokenizer) scan() (Token, error) {
	c, err := t.read()
	for err == nil && c != eof && isSpace(c) {
		c, err = t.read()
	}
	if err != nil {
		return Token{}, err
	}

	switch c {
	case ',':
		return Token{Kind: Comma}, nil
	case ':':
		return Token{Kind: Colon}, nil
	case '{':
		return Token{Kind: StartObject}, nil
	case '[':
		return Token{Kind: StartArray}, nil
	case ']':
		return Token{Kind: EndArray}, nil
	case '}':
		return Token{Kind: EndObject}, nil
	case 'n':
		return t.scanKeyword("ull", Token{Kind: Null})
	case 't':
		return t.scanKeyword("rue", Token{Kind: Boolean, Text: "true"})
	case 'f':
		return t.scanKeyword("alse", Token{Kind: Boolean, Text: "false"})
	case '"':
		return t.scanString()
	case eof:
		return Token{Kind: EndOfInput}, nil
	}
	if c == '-' || isDigit(c) {
		t.unread()
		return t.scanNumber()
	}
	return Token{}, t.fail(errors.MsgInvalidInput)
}

// scanKeyword matches the remainder of a literal one rune at a time.
func (t *Tokenizer) scanKeyword(rest string, tok Token) (Token, error) {
	for _, want := range rest {
		c, err := t.read()
		if err != nil {
			return Token{}, err
		}
		if c != want {
			return Token{}, t.fail(errors.MsgInvalidInput)
		}
	}
	return tok, nil
}

func (t *Tokenizer) scanString() (Token, error) {
	var sb strings.Builder
	for {
		c, err := t.read()
		if err != nil {
			return Token{}, err
		}
		switch {
		case c == eof:
			return Token{}, t.fail(errors.MsgUnterminatedString)
		case c == '"':
			return Token{Kind: String, Text: sb.String()}, nil
		case c == '\\':
			c, err = t.read()
			if err != nil {
				return Token{}, err
			}
			if err := t.writeEscape(&sb, c); err != nil {
				return Token{}, err
			}
		case c < ' ':
			// raw CR, LF and other control characters
			return Token{}, t.fail(errors.MsgInvalidInput)
		default:
			sb.WriteRune(c)
		}
	}
}

// writeEscape decodes the escape whose backslash has been consumed and whose
// selector rune is c.
func (t *Tokenizer) writeEscape(sb *strings.Builder, c rune) error {
	switch c {
	case '"', '\\', '/':
		sb.WriteRune(c)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'u':
		r, err := t.scanHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			return t.writeSurrogate(sb, r)
		}
		sb.WriteRune(r)
	case eof:
		return t.fail(errors.MsgUnterminatedString)
	default:
		return t.fail(errors.MsgInvalidInput)
	}
	return nil
}

// writeSurrogate pairs high with a directly following \u escape. Surrogates
// that cannot be paired become U+FFFD.
func (t *Tokenizer) writeSurrogate(sb *strings.Builder, high rune) error {
	c, err := t.read()
	if err != nil {
		return err
	}
	if c != '\\' {
		t.unread()
		sb.WriteRune(utf8.RuneError)
		return nil
	}
	c, err = t.read()
	if err != nil {
		return err
	}
	if c != 'u' {
		sb.WriteRune(utf8.RuneError)
		return t.writeEscape(sb, c)
	}
	low, err := t.scanHex4()
	if err != nil {
		return err
	}
	if r := utf16.DecodeRune(high, low); r != utf8.RuneError {
		sb.WriteRune(r)
		return nil
	}
	sb.WriteRune(utf8.RuneError)
	if utf16.IsSurrogate(low) {
		return t.writeSurrogate(sb, low)
	}
	sb.WriteRune(low)
	return nil
}

func (t *Tokenizer) scanHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c, err := t.read()
		if err != nil {
			return 0, err
		}
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | (c - '0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | (c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | (c - 'A' + 10)
		case c == eof:
			return 0, t.fail(errors.MsgUnterminatedString)
		default:
			return 0, t.fail(errors.MsgInvalidInput)
		}
	}
	return r, nil
}

// scanNumber matches -? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
// and keeps the text verbatim. The rune after the number is pushed back.
func (t *Tokenizer) scanNumber() (Token, error) {
	var sb strings.Builder
	c, err := t.read()
	if err != nil {
		return Token{}, err
	}
	if c == '-' {
		sb.WriteRune(c)
		if c, err = t.read(); err != nil {
			return Token{}, err
		}
	}
	switch {
	case c == '0':
		sb.WriteRune(c)
	case isDigit(c):
		sb.WriteRune(c)
		if err := t.scanDigits(&sb); err != nil {
			return Token{}, err
		}
	default:
		return Token{}, t.fail(errors.MsgMinusNotDigit)
	}

	if c, err = t.read(); err != nil {
		return Token{}, err
	}
	if c == '.' {
		sb.WriteRune(c)
		if c, err = t.read(); err != nil {
			return Token{}, err
		}
		if !isDigit(c) {
			return Token{}, t.fail(errors.MsgFractionNotDigit)
		}
		sb.WriteRune(c)
		if err := t.scanDigits(&sb); err != nil {
			return Token{}, err
		}
		if c, err = t.read(); err != nil {
			return Token{}, err
		}
	}
	if c == 'e' || c == 'E' {
		sb.WriteRune(c)
		if c, err = t.read(); err != nil {
			return Token{}, err
		}
		if c == '+' || c == '-' {
			sb.WriteRune(c)
			if c, err = t.read(); err != nil {
				return Token{}, err
			}
			if !isDigit(c) {
				return Token{}, t.fail(errors.MsgExpSignNotDigit)
			}
		} else if !isDigit(c) {
			return Token{}, t.fail(errors.MsgExponentNotDigit)
		}
		sb.WriteRune(c)
		if err := t.scanDigits(&sb); err != nil {
			return Token{}, err
		}
		if c, err = t.read(); err != nil {
			return Token{}, err
		}
	}
	t.unread()
	return Token{Kind: Number, Text: sb.String()}, nil
}

// scanDigits appends digits until a non-digit, which is pushed back.
func (t *Tokenizer) scanDigits(sb *strings.Builder) error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		if !isDigit(c) {
			t.unread()
			return nil
		}
		sb.WriteRune(c)
	}
}

func isSpace(c rune) bool {
	return c >= 0 && c <= ' '
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
