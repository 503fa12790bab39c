// Package ast holds the pieces shared by both surface grammars: the node
// annotation header, the typed value-expression form, and the raw join
// qualifier. The statement-level node sets live in sqlast and relast.
package ast

import "github.com/RomeoSajina/relax/lib/source"

// NodeInfo is the annotation header embedded by value in every AST node.
// Pos is mandatory; Wrapped records source parentheses for display fidelity
// only; Metadata is copied verbatim onto the produced plan node.
type NodeInfo struct {
	Pos      source.Range
	Wrapped  bool
	Metadata map[string]string
}

// Info exposes the header through the node interfaces.
func (i *NodeInfo) Info() *NodeInfo {
	return i
}

// Datatype enumerates the value datatypes the compiler understands.
type Datatype string

const (
	TypeString  Datatype = "string"
	TypeNumber  Datatype = "number"
	TypeBoolean Datatype = "boolean"
	TypeDate    Datatype = "date"
	TypeNull    Datatype = "null"
)

// Known reports whether d is one of the supported datatypes.
func (d Datatype) Known() bool {
	switch d {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeNull:
		return true
	}
	return false
}

// Well-known value-expression function names. ColumnValue and Constant get
// special handling during translation; every other name is an ordinary
// operator application.
const (
	FuncColumnValue = "columnValue"
	FuncConstant    = "constant"
)

// ValueExpr is a node of the typed value-expression AST. A column reference
// is encoded as datatype null, func columnValue, with two positional string
// arguments (relation alias, column name). A literal is func constant with
// the raw values in Args. Any other Func is an operator application whose
// Args are nested *ValueExpr nodes.
type ValueExpr struct {
	NodeInfo
	Datatype Datatype
	Func     string
	Args     []any
}

// JoinPredicate is the raw join qualifier attached to a join AST node. A nil
// *JoinPredicate means a natural join over all shared columns; Columns set
// means a natural join restricted to those columns; Cond set means a theta
// join over the expression. Columns and Cond are mutually exclusive.
type JoinPredicate struct {
	Columns []string
	Cond    *ValueExpr
}

// AggFunc enumerates the aggregate functions a SELECT list may carry.
type AggFunc string

const (
	AggCount    AggFunc = "COUNT"
	AggCountAll AggFunc = "COUNT(*)"
	AggSum      AggFunc = "SUM"
	AggAvg      AggFunc = "AVG"
	AggMin      AggFunc = "MIN"
	AggMax      AggFunc = "MAX"
)
