package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height
	FontTall   = 0x01
)

// Document builds an ESC/POS byte stream for a thermal ticket.
// Widths are counted in runes so accented item names line up.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for the given paper width in characters:
// 32 for 58mm rolls, 48 for 80mm rolls.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the printable width in characters.
func (d *Document) Width() int {
	return d.width
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables emphasized text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line, wrapping it at the paper width.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

// TextF writes a formatted line.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width rule.
func (d *Document) Separator(char rune) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right.
// Example: "SUBTOTAL                S/ 100.00"
func (d *Document) KeyValue(key, value string) *Document {
	d.buf.WriteString(spread(key, value, d.width))
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints the item name on its own line(s) and then
// "qty x unit price" with the line total flush right.
func (d *Document) ItemLine(qty int, name, unitPrice, total string) *Document {
	for _, line := range wrap(name, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	d.buf.WriteString(spread(fmt.Sprintf("  %d x %s", qty, unitPrice), total, d.width))
	d.buf.WriteByte(LF)
	return d
}

// PartialCut feeds the paper past the cutter and cuts leaving a hinge.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x41, 0x03})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func spread(left, right string, width int) string {
	room := width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		return right
	}
	left = truncate(left, room)
	spaces := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	return left + strings.Repeat(" ", spaces) + right
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// wrap breaks s into lines of at most width runes, splitting on spaces when it can
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var lines []string
	var current []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
