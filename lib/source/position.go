package source

// Position points to a location in the source text (1-based indices).
type Position struct {
	Line   int
	Column int
}

// Range covers a span of source text from Start up to End.
type Range struct {
	Start Position
	End   Position
}

// IsValid reports whether the range points at real source text. Parsers are
// required to stamp every AST node with a valid range; the translator treats
// an invalid one as an upstream defect.
func (r Range) IsValid() bool {
	return r.Start.Line > 0 && r.Start.Column > 0
}

// Span builds a single-line range, mostly useful in tests.
func Span(line, column, endColumn int) Range {
	return Range{
		Start: Position{Line: line, Column: column},
		End:   Position{Line: line, Column: endColumn},
	}
}
