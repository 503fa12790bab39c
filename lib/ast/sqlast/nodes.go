// Package sqlast defines the SQL-side abstract syntax tree. The parser is an
// external collaborator; translation consumes these nodes as immutable input.
package sqlast

import (
	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/source"
)

// Node represents any SQL AST element that evaluates to a relation.
type Node interface {
	Info() *ast.NodeInfo
	relationNode()
}

// Relation is a reference to a base relation in the catalog.
type Relation struct {
	ast.NodeInfo
	Name string
}

func (*Relation) relationNode() {}

// RenameRelation gives its child relation a new name (FROM R AS s).
type RenameRelation struct {
	ast.NodeInfo
	Input Node
	Name  string
}

func (*RenameRelation) relationNode() {}

// RelationFromSubstatement wraps a nested statement used as a named relation
// in a FROM clause.
type RelationFromSubstatement struct {
	ast.NodeInfo
	Statement Node
	Name      string
}

func (*RelationFromSubstatement) relationNode() {}

// Column identifies a possibly qualified column inside a clause.
type Column struct {
	Relation string
	Name     string
	Pos      source.Range
}

// Statement is a full SELECT statement: the declarative clauses the
// translator linearizes into an operator composition.
type Statement struct {
	ast.NodeInfo
	Distinct bool
	Select   []SelectItem
	From     Node
	Where    *ast.ValueExpr
	GroupBy  []Column
	Having   *ast.ValueExpr
	// Clause positions. Operators synthesized from a clause take the
	// clause's position, not the position of the expression inside it.
	WherePos   source.Range
	GroupByPos source.Range
	HavingPos  source.Range
	// NumAggregates is the parser-derived count of aggregate entries in the
	// SELECT list. The translator identifies aggregates by item kind and
	// treats a mismatch with this count as an upstream defect.
	NumAggregates int
}

func (*Statement) relationNode() {}

// SelectItem is one entry of a SELECT list.
type SelectItem interface {
	Info() *ast.NodeInfo
	selectItem()
}

// StarItem is the wildcard selector, optionally qualified by a relation.
type StarItem struct {
	ast.NodeInfo
	Relation string
}

func (*StarItem) selectItem() {}

// ColumnItem is a plain column reference with an optional output alias.
type ColumnItem struct {
	ast.NodeInfo
	Relation string
	Name     string
	Alias    string
}

func (*ColumnItem) selectItem() {}

// AggregateItem is an aggregate-function call. Name is the output column
// name the grouping stage assigns (the alias if one was written, otherwise
// the rendered call text).
type AggregateItem struct {
	ast.NodeInfo
	Func     ast.AggFunc
	Relation string
	Column   string // empty for COUNT(*)
	Name     string
}

func (*AggregateItem) selectItem() {}

// ExprItem is a computed expression projected under an explicit output name.
type ExprItem struct {
	ast.NodeInfo
	Name     string
	Relation string
	Expr     *ast.ValueExpr
}

func (*ExprItem) selectItem() {}

// JoinKind enumerates the SQL join flavors.
type JoinKind string

const (
	JoinCross JoinKind = "CROSS"
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinRight JoinKind = "RIGHT"
	JoinFull  JoinKind = "FULL"
)

// Join combines two relations. A nil Predicate denotes a natural join over
// all shared columns (this is also how the parser encodes NATURAL JOIN).
type Join struct {
	ast.NodeInfo
	Kind      JoinKind
	Left      Node
	Right     Node
	Predicate *ast.JoinPredicate
}

func (*Join) relationNode() {}

// SetOpKind enumerates the set operators.
type SetOpKind string

const (
	SetUnion     SetOpKind = "UNION"
	SetIntersect SetOpKind = "INTERSECT"
	SetExcept    SetOpKind = "EXCEPT"
)

// SetOp combines two statements with a set operator. All records that the
// source asked for bag semantics, which the engine does not implement.
type SetOp struct {
	ast.NodeInfo
	Op    SetOpKind
	All   bool
	Left  Node
	Right Node
}

func (*SetOp) relationNode() {}

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Column    Column
	Ascending bool
}

// OrderBy wraps the ordered statement.
type OrderBy struct {
	ast.NodeInfo
	Input Node
	Terms []OrderTerm
}

func (*OrderBy) relationNode() {}

// Limit wraps a statement with LIMIT/OFFSET. All means LIMIT ALL (no upper
// bound); an absent OFFSET is zero.
type Limit struct {
	ast.NodeInfo
	Input  Node
	Count  int
	All    bool
	Offset int
}

func (*Limit) relationNode() {}
