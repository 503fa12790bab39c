package plan

import (
	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/source"
)

// ExprHeader is the annotation block embedded in every expression node. The
// position and parenthesization flag mirror the source AST exactly; they
// feed error reporting and pretty-printing, never evaluation.
type ExprHeader struct {
	Pos     source.Range
	Wrapped bool
}

// Header exposes the annotation block through the Expr interface.
func (h *ExprHeader) Header() *ExprHeader {
	return h
}

// Expr is a node of the evaluable expression tree.
type Expr interface {
	Header() *ExprHeader
	exprNode()
}

// ColumnRef references a column, optionally qualified by a relation alias.
type ColumnRef struct {
	ExprHeader
	Relation string
	Column   string
}

func (*ColumnRef) exprNode() {}

// FuncExpr is an operator or function application. For Name constant the
// literal values sit verbatim in Literals and Args is empty; for every other
// name the operands are the translated Args.
type FuncExpr struct {
	ExprHeader
	Datatype ast.Datatype
	Name     string
	Args     []Expr
	Literals []any
}

func (*FuncExpr) exprNode() {}
