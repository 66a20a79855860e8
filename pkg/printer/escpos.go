package printer

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

type Align byte

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type FontSize byte

const (
	FontNormal FontSize = 0x00
	FontTall   FontSize = 0x01
	FontWide   FontSize = 0x10
	FontDouble FontSize = 0x11
)

// Paper widths in characters.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS job together with a plain text mirror
// of what the paper will show.
type Document struct {
	raw   bytes.Buffer
	plain strings.Builder
	width int
	align Align
}

func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.raw.Write([]byte{esc, '@'})
	return d
}

func (d *Document) Width() int { return d.width }

func (d *Document) Align(a Align) *Document {
	d.align = a
	d.raw.Write([]byte{esc, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.raw.Write([]byte{esc, 'E', b})
	return d
}

func (d *Document) Size(s FontSize) *Document {
	d.raw.Write([]byte{gs, '!', byte(s)})
	return d
}

// Line writes s and a line feed. Long text wraps at the paper width.
func (d *Document) Line(s string) *Document {
	for _, part := range wrap(s, d.width) {
		d.raw.WriteString(part)
		d.raw.WriteByte(lf)
		d.plain.WriteString(d.pad(part))
		d.plain.WriteByte('\n')
	}
	return d
}

func (d *Document) Linef(format string, args ...any) *Document {
	return d.Line(fmt.Sprintf(format, args...))
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.raw.WriteByte(lf)
		d.plain.WriteByte('\n')
	}
	return d
}

func (d *Document) Rule(char byte) *Document {
	return d.Line(strings.Repeat(string(char), d.width))
}

// Pair prints label on the left and value flush right.
func (d *Document) Pair(label, value string) *Document {
	gap := d.width - len(label) - len(value)
	if gap < 1 {
		return d.Line(label).Line(strings.Repeat(" ", max(0, d.width-len(value))) + value)
	}
	return d.Line(label + strings.Repeat(" ", gap) + value)
}

// Item prints the medicine name, then "qty x price" with the line total
// flush right on the next line.
func (d *Document) Item(name string, qty int, unitPrice, total string) *Document {
	d.Line(name)
	return d.Pair(fmt.Sprintf("  %d x %s", qty, unitPrice), total)
}

func (d *Document) Cut() *Document {
	d.raw.Write([]byte{gs, 'V', 0x01})
	return d
}

// Bytes returns the raw job for the printer.
func (d *Document) Bytes() []byte {
	return d.raw.Bytes()
}

// Text returns the plain preview.
func (d *Document) Text() string {
	return d.plain.String()
}

func (d *Document) pad(s string) string {
	space := d.width - len(s)
	if space <= 0 {
		return s
	}
	switch d.align {
	case AlignCenter:
		return strings.Repeat(" ", space/2) + s
	case AlignRight:
		return strings.Repeat(" ", space) + s
	default:
		return s
	}
}

func wrap(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}
	var out []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width+1], ' ')
		if cut <= 0 {
			cut = width
		}
		out = append(out, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut:], " ")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
