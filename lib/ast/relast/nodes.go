// Package relast defines the native relational-algebra abstract syntax tree.
// Unlike the SQL form, these nodes are already primitive algebra operators;
// translation maps each kind 1:1 onto a plan node.
package relast

import (
	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/source"
)

// Node represents any RA AST element that evaluates to a relation.
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

// TableColumn declares one column of an inline table literal.
type TableColumn struct {
	Name string
	Type ast.Datatype
}

// Table is an inline literal relation with an explicit schema and rows.
// Source keeps the original definition text for later display.
type Table struct {
	ast.NodeInfo
	Name    string
	Columns []TableColumn
	Rows    [][]any
	Source  string
}

func (*Table) relationNode() {}

// Selection filters its input by a boolean expression.
type Selection struct {
	ast.NodeInfo
	Input     Node
	Condition *ast.ValueExpr
}

func (*Selection) relationNode() {}

// ProjectionItem is one projected column or named expression. Expr set means
// a computed entry projected under Name; otherwise a plain column reference.
type ProjectionItem struct {
	Relation string
	Column   string
	Name     string
	Expr     *ast.ValueExpr
	Pos      source.Range
}

// Projection narrows its input to the listed items.
type Projection struct {
	ast.NodeInfo
	Input Node
	Items []ProjectionItem
}

func (*Projection) relationNode() {}

// OrderTerm is one ordering entry.
type OrderTerm struct {
	Column    Column
	Ascending bool
}

// OrderBy sorts its input.
type OrderBy struct {
	ast.NodeInfo
	Input Node
	Terms []OrderTerm
}

func (*OrderBy) relationNode() {}

// Column identifies a possibly qualified column inside a clause.
type Column struct {
	Relation string
	Name     string
	Pos      source.Range
}

// AggregateTerm is one aggregate computed by a GroupBy, projected as Name.
type AggregateTerm struct {
	Func     ast.AggFunc
	Relation string
	Column   string // empty for COUNT(*)
	Name     string
}

// GroupBy groups its input and computes aggregates.
type GroupBy struct {
	ast.NodeInfo
	Input      Node
	Group      []Column
	Aggregates []AggregateTerm
}

func (*GroupBy) relationNode() {}

// Set operators.
type (
	Union struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
	Intersect struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
	Difference struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
	Division struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
)

func (*Union) relationNode()      {}
func (*Intersect) relationNode()  {}
func (*Difference) relationNode() {}
func (*Division) relationNode()   {}

// Renaming maps an existing column (optionally qualified) to a new name.
type Renaming struct {
	NewName  string
	Relation string
	OldName  string
}

// RenameColumns renames columns of its input.
type RenameColumns struct {
	ast.NodeInfo
	Input     Node
	Renamings []Renaming
}

func (*RenameColumns) relationNode() {}

// RenameRelation gives its input relation a new name.
type RenameRelation struct {
	ast.NodeInfo
	Input Node
	Name  string
}

func (*RenameRelation) relationNode() {}

// ThetaJoin joins on an arbitrary boolean expression.
type ThetaJoin struct {
	ast.NodeInfo
	Left      Node
	Right     Node
	Condition *ast.ValueExpr
}

func (*ThetaJoin) relationNode() {}

// CrossJoin is the cartesian product.
type CrossJoin struct {
	ast.NodeInfo
	Left  Node
	Right Node
}

func (*CrossJoin) relationNode() {}

// NaturalJoin joins on shared columns, optionally restricted to Columns.
type NaturalJoin struct {
	ast.NodeInfo
	Left    Node
	Right   Node
	Columns []string
}

func (*NaturalJoin) relationNode() {}

// Semi and anti joins are natural-join based.
type (
	LeftSemiJoin struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
	RightSemiJoin struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
	AntiJoin struct {
		ast.NodeInfo
		Left  Node
		Right Node
	}
)

func (*LeftSemiJoin) relationNode()  {}
func (*RightSemiJoin) relationNode() {}
func (*AntiJoin) relationNode()      {}

// Outer joins carry a full raw join qualifier, since an outer join may be
// natural as well as theta.
type (
	LeftOuterJoin struct {
		ast.NodeInfo
		Left      Node
		Right     Node
		Predicate *ast.JoinPredicate
	}
	RightOuterJoin struct {
		ast.NodeInfo
		Left      Node
		Right     Node
		Predicate *ast.JoinPredicate
	}
	FullOuterJoin struct {
		ast.NodeInfo
		Left      Node
		Right     Node
		Predicate *ast.JoinPredicate
	}
)

func (*LeftOuterJoin) relationNode()  {}
func (*RightOuterJoin) relationNode() {}
func (*FullOuterJoin) relationNode()  {}
