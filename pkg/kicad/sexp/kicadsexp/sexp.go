// Package kicadsexp models, parses and writes the S-expressions KiCad uses
// for its board and footprint files.
//
// KiCad is strict about quoting: free text (names, pad numbers, layer
// names) must be quoted, while keywords (node tags, pad types, stroke
// styles) must be bare. The node model keeps the two apart as Quoted and
// Symbol so a value read back from a file still says how it was written.
package kicadsexp

import (
	"strconv"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the serialized representation
	String() string
}

// Symbol is a bare atom: a keyword or a number.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Quoted is a string atom, written between double quotes.
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }
func (q Quoted) Tail() Sexp     { return nil }
func (q Quoted) String() string { return quote(string(q)) }

// Text returns the unquoted content.
func (q Quoted) Text() string { return string(q) }

// quote escapes backslashes, quotes and line breaks; everything else,
// including non-ASCII text, is written verbatim.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// L builds a list from its elements.
func L(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	writeCompact(&b, l)
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Items returns the elements of the list. The slice must not be modified.
func (l *List) Items() []Sexp {
	return l.elements
}

// Append adds elements to the end of the list.
func (l *List) Append(elements ...Sexp) {
	l.elements = append(l.elements, elements...)
}

// Tag returns the leading symbol of the list, or "" if it has none.
func (l *List) Tag() string {
	if sym, ok := l.Head().(Symbol); ok {
		return string(sym)
	}
	return ""
}

// Sym returns a bare keyword atom.
func Sym(s string) Symbol { return Symbol(s) }

// Str returns a quoted string atom.
func Str(s string) Quoted { return Quoted(s) }

// Num returns a number atom in the shortest decimal form without exponent.
// Negative zero is written as 0.
func Num(v float64) Symbol {
	if v == 0 {
		return Symbol("0")
	}
	return Symbol(strconv.FormatFloat(v, 'f', -1, 64))
}

// Int returns an integer atom.
func Int(v int) Symbol {
	return Symbol(strconv.Itoa(v))
}
