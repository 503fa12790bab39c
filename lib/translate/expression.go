package translate

import (
	"github.com/cockroachdb/errors"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/plan"
)

// valueExpr recursively converts a typed value-expression AST into the
// evaluable expression tree. Column references (datatype null, func
// columnValue) bypass generic handling; constants keep their literal
// arguments verbatim; every other function recurses into its arguments.
// Positions and parenthesization flags are mirrored exactly.
func valueExpr(e *ast.ValueExpr) (plan.Expr, error) {
	if e == nil {
		return nil, errors.AssertionFailedf("translate: nil value expression")
	}
	if !e.Pos.IsValid() {
		return nil, errors.AssertionFailedf("translate: value expression %q lacks a source position", e.Func)
	}
	if !e.Datatype.Known() {
		return nil, errors.AssertionFailedf("translate: value expressions of datatype %q are not implemented", string(e.Datatype))
	}

	if e.Datatype == ast.TypeNull && e.Func == ast.FuncColumnValue {
		return columnValue(e)
	}

	out := &plan.FuncExpr{Datatype: e.Datatype, Name: e.Func}
	if e.Func == ast.FuncConstant {
		out.Literals = append([]any(nil), e.Args...)
	} else {
		out.Args = make([]plan.Expr, 0, len(e.Args))
		for _, arg := range e.Args {
			child, ok := arg.(*ast.ValueExpr)
			if !ok {
				return nil, errors.AssertionFailedf("translate: argument of %q is %T, not an expression", e.Func, arg)
			}
			translated, err := valueExpr(child)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, translated)
		}
	}
	out.Pos = e.Pos
	out.Wrapped = e.Wrapped
	return out, nil
}

func columnValue(e *ast.ValueExpr) (plan.Expr, error) {
	if len(e.Args) != 2 {
		return nil, errors.AssertionFailedf("translate: columnValue expects 2 arguments, got %d", len(e.Args))
	}
	relation, ok := e.Args[0].(string)
	if !ok {
		return nil, errors.AssertionFailedf("translate: columnValue relation alias is %T, not a string", e.Args[0])
	}
	column, ok := e.Args[1].(string)
	if !ok {
		return nil, errors.AssertionFailedf("translate: columnValue column name is %T, not a string", e.Args[1])
	}
	ref := &plan.ColumnRef{Relation: relation, Column: column}
	ref.Pos = e.Pos
	ref.Wrapped = e.Wrapped
	return ref, nil
}
