package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Encoder writes S-expressions to an io.Writer.
//
// With an indent set, every direct child of the root list goes on its own
// line, which is how KiCad lays out footprint files. Deeper lists are
// always written inline.
type Encoder struct {
	w      *bufio.Writer
	indent string
}

// NewEncoder creates an encoder that writes compact output
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// SetIndent sets the prefix written before each child of the root list.
// An empty indent restores compact output.
func (e *Encoder) SetIndent(indent string) {
	e.indent = indent
}

// Encode writes s followed by a newline.
func (e *Encoder) Encode(s Sexp) error {
	root, ok := s.(*List)
	if !ok || e.indent == "" {
		writeCompact(e.w, s)
	} else {
		e.w.WriteByte('(')
		for i, item := range root.elements {
			// The leading tag and its bare/quoted arguments stay on the
			// first line; lists start new lines.
			if _, isList := item.(*List); isList {
				e.w.WriteByte('\n')
				e.w.WriteString(e.indent)
			} else if i > 0 {
				e.w.WriteByte(' ')
			}
			writeCompact(e.w, item)
		}
		e.w.WriteString("\n)")
	}
	e.w.WriteByte('\n')
	return e.w.Flush()
}

// Marshal returns the compact single-line form of s.
func Marshal(s Sexp) string {
	var b strings.Builder
	writeCompact(&b, s)
	return b.String()
}

// MarshalIndent returns s with each root child on its own indented line.
func MarshalIndent(s Sexp, indent string) string {
	var b strings.Builder
	enc := NewEncoder(&b)
	enc.SetIndent(indent)
	// strings.Builder never fails
	_ = enc.Encode(s)
	return b.String()
}

type byteWriter interface {
	io.StringWriter
	io.ByteWriter
}

func writeCompact(w byteWriter, s Sexp) {
	list, ok := s.(*List)
	if !ok {
		if s != nil {
			w.WriteString(s.String())
		}
		return
	}

	w.WriteByte('(')
	for i, item := range list.elements {
		if i > 0 {
			w.WriteByte(' ')
		}
		writeCompact(w, item)
	}
	w.WriteByte(')')
}
