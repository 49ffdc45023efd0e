// Package parser builds a value tree from the tokens of a JSON document.
//
// The grammar is LL(1) and is parsed by recursive descent:
//
//	document := array | object
//	object   := '{' ( string ':' value (',' string ':' value)* )? '}'
//	array    := '[' ( value (',' value)* )? ']'
//	value    := primitive | object | array
//
// Every failure is an *errors.ParseError and aborts the whole parse.
package parser

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tokenizer"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest.
const DefaultMaxDepth = 10000

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug events.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithMaxDepth sets the nesting limit. A value of zero or less disables it.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parser consumes tokens from a Tokenizer. It is meant for a single parse.
type Parser struct {
	tokens   *tokenizer.Tokenizer
	logger   log.Logger
	maxDepth int
	depth    int
}

// New creates a Parser reading from tokens.
func New(tokens *tokenizer.Tokenizer, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		logger:   log.NewNopLogger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a whole document whose root is an object or an array.
func (p *Parser) Parse() (models.Value, error) {
	tok, err := p.tokens.Peek(0)
	if err != nil {
		return nil, p.failed(err)
	}

	var root models.Value
	switch tok.Kind {
	case tokenizer.StartObject:
		root, err = p.object()
	case tokenizer.StartArray:
		root, err = p.array()
	default:
		err = p.fail(errors.MsgInvalidInput)
	}
	if err == nil {
		err = p.expectEnd()
	}
	if err != nil {
		return nil, p.failed(err)
	}

	level.Debug(p.logger).Log("msg", "parsed document", "root", root.Kind(), "runes", p.tokens.Offset())
	return root, nil
}

// ParseObject parses a document that must be exactly one object.
func (p *Parser) ParseObject() (*models.Object, error) {
	if err := p.expectStart(tokenizer.StartObject); err != nil {
		return nil, p.failed(err)
	}
	obj, err := p.object()
	if err == nil {
		err = p.expectEnd()
	}
	if err != nil {
		return nil, p.failed(err)
	}
	level.Debug(p.logger).Log("msg", "parsed object", "members", obj.Len())
	return obj, nil
}

// ParseArray parses a document that must be exactly one array.
func (p *Parser) ParseArray() (models.Array, error) {
	if err := p.expectStart(tokenizer.StartArray); err != nil {
		return nil, p.failed(err)
	}
	arr, err := p.array()
	if err == nil {
		err = p.expectEnd()
	}
	if err != nil {
		return nil, p.failed(err)
	}
	level.Debug(p.logger).Log("msg", "parsed array", "elements", len(arr))
	return arr, nil
}

func (p *Parser) object() (*models.Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.tokens.Next(); err != nil {
		return nil, err
	}
	obj := models.NewObject(0)

	tok, err := p.tokens.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Kind == tokenizer.EndObject {
		_, err := p.tokens.Next()
		return obj, err
	}

	for {
		key, err := p.expect(tokenizer.String)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenizer.Colon); err != nil {
			return nil, err
		}
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Set(key.Text, value)

		tok, err := p.tokens.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case tokenizer.Comma:
		case tokenizer.EndObject:
			return obj, nil
		default:
			return nil, p.fail(errors.MsgInvalidInput)
		}
	}
}

func (p *Parser) array() (models.Array, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.tokens.Next(); err != nil {
		return nil, err
	}
	arr := models.Array{}

	tok, err := p.tokens.Peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Kind == tokenizer.EndArray {
		_, err := p.tokens.Next()
		return arr, err
	}

	for {
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)

		tok, err := p.tokens.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case tokenizer.Comma:
		case tokenizer.EndArray:
			return arr, nil
		default:
			return nil, p.fail(errors.MsgInvalidInput)
		}
	}
}

func (p *Parser) value() (models.Value, error) {
	tok, err := p.tokens.Peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Kind.IsPrimitive():
		if _, err := p.tokens.Next(); err != nil {
			return nil, err
		}
		return primitive(tok), nil
	case tok.Kind == tokenizer.StartObject:
		return p.object()
	case tok.Kind == tokenizer.StartArray:
		return p.array()
	default:
		return nil, p.fail(errors.MsgInvalidInput)
	}
}

func primitive(tok tokenizer.Token) models.Value {
	switch tok.Kind {
	case tokenizer.String:
		return models.String(tok.Text)
	case tokenizer.Number:
		return models.Number(tok.Text)
	case tokenizer.Boolean:
		return models.Bool(tok.Text == "true")
	default:
		return models.Null{}
	}
}

// expect consumes the next token and fails unless it has the given kind.
func (p *Parser) expect(kind tokenizer.Kind) (tokenizer.Token, error) {
	tok, err := p.tokens.Next()
	if err != nil {
		return tokenizer.Token{}, err
	}
	if tok.Kind != kind {
		return tokenizer.Token{}, p.fail(errors.MsgInvalidInput)
	}
	return tok, nil
}

func (p *Parser) expectStart(kind tokenizer.Kind) error {
	tok, err := p.tokens.Peek(0)
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return p.fail(errors.MsgInvalidInput)
	}
	return nil
}

// expectEnd rejects anything after the root value.
func (p *Parser) expectEnd() error {
	_, err := p.expect(tokenizer.EndOfInput)
	return err
}

func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.fail(errors.MsgMaxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) fail(message string) error {
	return errors.NewParseError(message, p.tokens.Offset())
}

func (p *Parser) failed(err error) error {
	level.Debug(p.logger).Log("msg", "parse failed", "err", err, "runes", p.tokens.Offset())
	return err
}
