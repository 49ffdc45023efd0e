package tokenizer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	StartObject Kind = iota
	EndObject
	StartArray
	EndArray
	Comma
	Colon
	String
	Number
	Boolean
	Null
	EndOfInput
)

var kindNames = [...]string{
	StartObject: "START_OBJECT",
	EndObject:   "END_OBJECT",
	StartArray:  "START_ARRAY",
	EndArray:    "END_ARRAY",
	Comma:       "COMMA",
	Colon:       "COLON",
	String:      "STRING",
	Number:      "NUMBER",
	Boolean:     "BOOLEAN",
	Null:        "NULL",
	EndOfInput:  "END_OF_INPUT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsPrimitive reports whether tokens of this kind carry a scalar value.
func (k Kind) IsPrimitive() bool {
	switch k {
	case String, Number, Boolean, Null:
		return true
	}
	return false
}

// Token is a classified lexical unit. Text holds the decoded string, the
// verbatim number, or "true"/"false"; it is empty for every other kind.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case String:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case Number, Boolean:
		return fmt.Sprintf("%s %s", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
