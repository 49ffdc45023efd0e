// Package printer renders value trees and token streams for people to read.
// The output is a debugging view, not JSON.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tokenizer"
)

const ellipsis = "…"

// Options controls the layout of printed trees.
type Options struct {
	Indent         int
	MaxStringWidth int // zero disables truncation
	Color          bool
}

// Printer writes value trees to an io.Writer.
type Printer struct {
	w        *bufio.Writer
	indent   string
	maxWidth int

	kind   *color.Color
	key    *color.Color
	str    *color.Color
	number *color.Color
	lit    *color.Color
}

// New creates a Printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:        bufio.NewWriter(w),
		indent:   strings.Repeat(" ", opts.Indent),
		maxWidth: opts.MaxStringWidth,
		kind:     color.New(color.Faint),
		key:      color.New(color.FgBlue, color.Bold),
		str:      color.New(color.FgGreen),
		number:   color.New(color.FgCyan),
		lit:      color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.kind, p.key, p.str, p.number, p.lit} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes v and everything below it.
func (p *Printer) Print(v models.Value) error {
	p.printValue(v, 0)
	p.w.WriteByte('\n')
	return p.w.Flush()
}

// PrintTokens writes one token per line.
func (p *Printer) PrintTokens(tokens []tokenizer.Token) error {
	for _, tok := range tokens {
		p.w.WriteString(p.kind.Sprint(tok.Kind.String()))
		switch tok.Kind {
		case tokenizer.String:
			p.w.WriteString(" " + p.quote(tok.Text))
		case tokenizer.Number:
			p.w.WriteString(" " + p.number.Sprint(tok.Text))
		case tokenizer.Boolean:
			p.w.WriteString(" " + p.lit.Sprint(tok.Text))
		}
		p.w.WriteByte('\n')
	}
	return p.w.Flush()
}

func (p *Printer) printValue(v models.Value, depth int) {
	switch v := v.(type) {
	case models.Null:
		p.w.WriteString(p.lit.Sprint("null"))
	case models.Bool:
		p.w.WriteString(p.lit.Sprint(strconv.FormatBool(bool(v))))
	case models.Number:
		p.w.WriteString(p.number.Sprint(string(v)))
	case models.String:
		p.w.WriteString(p.quote(string(v)))
	case *models.Object:
		p.printObject(v, depth)
	case models.Array:
		p.printArray(v, depth)
	default:
		fmt.Fprintf(p.w, "%v", v)
	}
}

func (p *Printer) printObject(obj *models.Object, depth int) {
	p.w.WriteString(p.kind.Sprintf("object (%d)", obj.Len()))

	width := 0
	obj.Range(func(key string, _ models.Value) bool {
		width = max(width, runewidth.StringWidth(strconv.Quote(key)))
		return true
	})
	obj.Range(func(key string, value models.Value) bool {
		quoted := strconv.Quote(key)
		p.newline(depth + 1)
		p.w.WriteString(p.key.Sprint(quoted))
		p.w.WriteString(":")
		p.w.WriteString(strings.Repeat(" ", width-runewidth.StringWidth(quoted)+1))
		p.printValue(value, depth+1)
		return true
	})
}

func (p *Printer) printArray(arr models.Array, depth int) {
	p.w.WriteString(p.kind.Sprintf("array (%d)", len(arr)))

	width := len(strconv.Itoa(len(arr) - 1))
	for i, element := range arr {
		p.newline(depth + 1)
		label := fmt.Sprintf("[%d]:", i)
		p.w.WriteString(p.kind.Sprint(label))
		p.w.WriteString(strings.Repeat(" ", width-len(strconv.Itoa(i))+1))
		p.printValue(element, depth+1)
	}
}

func (p *Printer) newline(depth int) {
	p.w.WriteByte('\n')
	p.w.WriteString(strings.Repeat(p.indent, depth))
}

// quote truncates s to the configured display width and quotes it.
func (p *Printer) quote(s string) string {
	if p.maxWidth > 0 && runewidth.StringWidth(s) > p.maxWidth {
		s = runewidth.Truncate(s, p.maxWidth, ellipsis)
	}
	return p.str.Sprint(strconv.Quote(s))
}
