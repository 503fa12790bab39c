// Package plan defines the canonical relational-algebra operator tree the
// translators produce. Nodes are built bottom-up, annotated once, and never
// mutated afterwards except for warning appends. How the operators evaluate
// and derive schemas at runtime is the executor's concern, not this package's.
package plan

import (
	"maps"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/source"
)

// Warning is a non-fatal advisory attached to a node. It carries a message
// key plus named parameters; resolving those to display text is left to the
// renderer.
type Warning struct {
	Key    string
	Params map[string]string
	Pos    source.Range
}

// Warning keys emitted by the translators.
const (
	WarnDistinctMissing = "distinctMissing"
	WarnSetAllIgnored   = "setAllIgnored"
)

// NodeHeader is the annotation block embedded by value in every plan node:
// source position, optional metadata, the display-only parenthesization
// flag, and the warnings list.
type NodeHeader struct {
	Pos      source.Range
	Wrapped  bool
	Metadata map[string]string
	Warnings []Warning
}

// Header exposes the annotation block through the Node interface.
func (h *NodeHeader) Header() *NodeHeader {
	return h
}

// AddWarning appends an advisory. This is the only mutation a node sees
// after construction.
func (h *NodeHeader) AddWarning(w Warning) {
	h.Warnings = append(h.Warnings, w)
}

// Node is any operator of the plan tree. Every node owns its children
// exclusively; the tree has no sharing and no cycles.
type Node interface {
	Header() *NodeHeader
	planNode()
}

// SchemaColumn describes one column of a base relation.
type SchemaColumn struct {
	Relation string
	Name     string
	Type     ast.Datatype
}

// Schema is the column layout of a base relation.
type Schema struct {
	Columns []SchemaColumn
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	cols := make([]SchemaColumn, len(s.Columns))
	copy(cols, s.Columns)
	return Schema{Columns: cols}
}

// MetadataInlineDefinition marks a relation that was defined inline in the
// source text rather than looked up in the catalog; its value is the
// original definition text.
const MetadataInlineDefinition = "inlineRelationDefinition"

// Relation is a named base relation with its schema and rows.
type Relation struct {
	NodeHeader
	Name   string
	Schema Schema
	Rows   [][]any
}

func (*Relation) planNode() {}

// Copy returns an independently owned duplicate of the relation. Two
// references to the same catalog entry within one statement must not alias
// each other's rows, schema, or metadata.
func (r *Relation) Copy() *Relation {
	rows := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		dup := make([]any, len(row))
		copy(dup, row)
		rows[i] = dup
	}
	c := &Relation{
		Name:   r.Name,
		Schema: r.Schema.Clone(),
		Rows:   rows,
	}
	c.Pos = r.Pos
	c.Wrapped = r.Wrapped
	if r.Metadata != nil {
		c.Metadata = maps.Clone(r.Metadata)
	}
	c.Warnings = append([]Warning(nil), r.Warnings...)
	return c
}

// Selection filters its input by a boolean expression.
type Selection struct {
	NodeHeader
	Input     Node
	Condition Expr
}

func (*Selection) planNode() {}

// ProjectionItem is one projected output. Exactly one of the three shapes
// applies: a qualified wildcard (Wildcard set), a computed expression
// projected under Name (Expr set), or a plain column reference.
type ProjectionItem struct {
	Relation string
	Column   string
	Wildcard bool
	Name     string
	Expr     Expr
}

// Projection narrows its input to the listed items.
type Projection struct {
	NodeHeader
	Input Node
	Items []ProjectionItem
}

func (*Projection) planNode() {}

// Column names a possibly qualified column inside an operator parameter
// list (ordering, grouping, renaming). Unlike ColumnRef it is not an
// expression node and carries no position of its own.
type Column struct {
	Relation string
	Name     string
}

// OrderBy sorts its input. Columns and Ascending are parallel lists.
type OrderBy struct {
	NodeHeader
	Input     Node
	Columns   []Column
	Ascending []bool
}

func (*OrderBy) planNode() {}

// Aggregate is one aggregate computed by a GroupBy, exposed as column Name.
type Aggregate struct {
	Func     ast.AggFunc
	Relation string
	Column   string // empty for COUNT(*)
	Name     string
}

// GroupBy groups its input by the group columns and computes aggregates.
type GroupBy struct {
	NodeHeader
	Input      Node
	Group      []Column
	Aggregates []Aggregate
}

func (*GroupBy) planNode() {}

// Renaming maps an existing column (optionally qualified) to a new name.
type Renaming struct {
	NewName  string
	Relation string
	OldName  string
}

// RenameColumns renames output columns of its input.
type RenameColumns struct {
	NodeHeader
	Input     Node
	Renamings []Renaming
}

func (*RenameColumns) planNode() {}

// RenameRelation exposes its input under a new relation name.
type RenameRelation struct {
	NodeHeader
	Input Node
	Name  string
}

func (*RenameRelation) planNode() {}

// JoinCondition qualifies an inner or outer join: either natural (equality
// over shared columns, optionally restricted to Restrict; nil means all
// shared columns) or theta (an arbitrary boolean expression).
type JoinCondition struct {
	Natural  bool
	Restrict []string
	Theta    Expr
}

// NaturalCondition builds a natural join condition, optionally restricted.
func NaturalCondition(restrict []string) JoinCondition {
	return JoinCondition{Natural: true, Restrict: restrict}
}

// ThetaCondition builds a theta join condition.
func ThetaCondition(e Expr) JoinCondition {
	return JoinCondition{Theta: e}
}

// CrossJoin is the cartesian product of its children.
type CrossJoin struct {
	NodeHeader
	Left  Node
	Right Node
}

func (*CrossJoin) planNode() {}

// InnerJoin joins its children under a JoinCondition.
type InnerJoin struct {
	NodeHeader
	Left      Node
	Right     Node
	Condition JoinCondition
}

func (*InnerJoin) planNode() {}

// Outer join variants. Like InnerJoin they take a full JoinCondition, since
// an outer join may be natural as well as theta.
type (
	LeftOuterJoin struct {
		NodeHeader
		Left      Node
		Right     Node
		Condition JoinCondition
	}
	RightOuterJoin struct {
		NodeHeader
		Left      Node
		Right     Node
		Condition JoinCondition
	}
	FullOuterJoin struct {
		NodeHeader
		Left      Node
		Right     Node
		Condition JoinCondition
	}
)

func (*LeftOuterJoin) planNode()  {}
func (*RightOuterJoin) planNode() {}
func (*FullOuterJoin) planNode()  {}

// SemiSide selects which side a SemiJoin keeps.
type SemiSide string

const (
	SemiLeft  SemiSide = "left"
	SemiRight SemiSide = "right"
)

// SemiJoin keeps rows of one side that have a natural-join partner on the
// other.
type SemiJoin struct {
	NodeHeader
	Left  Node
	Right Node
	Side  SemiSide
}

func (*SemiJoin) planNode() {}

// AntiJoin keeps left rows without a natural-join partner on the right.
type AntiJoin struct {
	NodeHeader
	Left  Node
	Right Node
}

func (*AntiJoin) planNode() {}

// Set operators.
type (
	Union struct {
		NodeHeader
		Left  Node
		Right Node
	}
	Intersect struct {
		NodeHeader
		Left  Node
		Right Node
	}
	Difference struct {
		NodeHeader
		Left  Node
		Right Node
	}
	Division struct {
		NodeHeader
		Left  Node
		Right Node
	}
)

func (*Union) planNode()      {}
func (*Intersect) planNode()  {}
func (*Difference) planNode() {}
func (*Division) planNode()   {}
