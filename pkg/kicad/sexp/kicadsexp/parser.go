package kicadsexp

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sexpLexer defines the lexical structure of KiCad S-expression files
var sexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `\s+`},

	// Quoted strings with backslash escapes
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Parentheses
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	// Bare atoms: keywords, numbers, unquoted layer names
	{Name: "Atom", Pattern: `[^\s()"]+`},
})

// document is the grammar root: any number of top-level expressions
type document struct {
	Exprs []*expr `parser:"@@*"`
}

type expr struct {
	List   *list   `parser:"  @@"`
	Quoted *string `parser:"| @String"`
	Atom   *string `parser:"| @Atom"`
}

type list struct {
	Open  string  `parser:"@\"(\""`
	Items []*expr `parser:"@@* \")\""`
}

var sexpParser = participle.MustBuild[document](
	participle.Lexer(sexpLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// Parse parses all top-level S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	doc, err := sexpParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return doc.nodes(), nil
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// ParseOne parses input that must hold exactly one top-level list.
func ParseOne(r io.Reader) (*List, error) {
	nodes, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("expected one top-level expression, got %d", len(nodes))
	}
	root, ok := nodes[0].(*List)
	if !ok {
		return nil, fmt.Errorf("expected top-level list, got atom %s", nodes[0])
	}
	return root, nil
}

func (d *document) nodes() []Sexp {
	out := make([]Sexp, 0, len(d.Exprs))
	for _, e := range d.Exprs {
		out = append(out, e.node())
	}
	return out
}

func (e *expr) node() Sexp {
	switch {
	case e.List != nil:
		elements := make([]Sexp, 0, len(e.List.Items))
		for _, item := range e.List.Items {
			elements = append(elements, item.node())
		}
		return &List{elements: elements}
	case e.Quoted != nil:
		return Quoted(*e.Quoted)
	default:
		return Symbol(*e.Atom)
	}
}
