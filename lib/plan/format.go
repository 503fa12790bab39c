package plan

import (
	"fmt"
	"strings"

	"github.com/RomeoSajina/relax/lib/ast"
)

// Format produces a canonical, deterministic multi-line rendering of the
// plan tree, one node per line, children indented under their parent. It is
// meant for diagnostics and tests; execution never reads it.
func Format(node Node) string {
	f := &formatter{}
	f.node(node, 0)
	return strings.TrimRight(f.builder.String(), "\n")
}

type formatter struct {
	builder strings.Builder
}

func (f *formatter) write(parts ...string) {
	for _, p := range parts {
		f.builder.WriteString(p)
	}
}

func (f *formatter) line(depth int, parts ...string) {
	f.write(strings.Repeat("  ", depth))
	f.write(parts...)
	f.write("\n")
}

func (f *formatter) node(node Node, depth int) {
	switch n := node.(type) {
	case nil:
		f.line(depth, "<nil>")
	case *Relation:
		f.line(depth, "Relation ", n.Name)
	case *Selection:
		f.line(depth, "Selection [", FormatExpr(n.Condition), "]")
		f.node(n.Input, depth+1)
	case *Projection:
		items := make([]string, len(n.Items))
		for i, it := range n.Items {
			items[i] = formatProjectionItem(it)
		}
		f.line(depth, "Projection [", strings.Join(items, ", "), "]")
		f.node(n.Input, depth+1)
	case *OrderBy:
		terms := make([]string, len(n.Columns))
		for i := range n.Columns {
			dir := "desc"
			if n.Ascending[i] {
				dir = "asc"
			}
			terms[i] = formatColumn(n.Columns[i].Relation, n.Columns[i].Name) + " " + dir
		}
		f.line(depth, "OrderBy [", strings.Join(terms, ", "), "]")
		f.node(n.Input, depth+1)
	case *GroupBy:
		group := make([]string, len(n.Group))
		for i := range n.Group {
			group[i] = formatColumn(n.Group[i].Relation, n.Group[i].Name)
		}
		aggs := make([]string, len(n.Aggregates))
		for i, a := range n.Aggregates {
			aggs[i] = formatAggregate(a)
		}
		f.line(depth, "GroupBy [", strings.Join(group, ", "), "] aggregates [", strings.Join(aggs, ", "), "]")
		f.node(n.Input, depth+1)
	case *RenameColumns:
		pairs := make([]string, len(n.Renamings))
		for i, rn := range n.Renamings {
			pairs[i] = rn.NewName + " <- " + formatColumn(rn.Relation, rn.OldName)
		}
		f.line(depth, "RenameColumns {", strings.Join(pairs, ", "), "}")
		f.node(n.Input, depth+1)
	case *RenameRelation:
		f.line(depth, "RenameRelation ", n.Name)
		f.node(n.Input, depth+1)
	case *CrossJoin:
		f.binary(depth, "CrossJoin", n.Left, n.Right)
	case *InnerJoin:
		f.binary(depth, "InnerJoin "+formatJoinCondition(n.Condition), n.Left, n.Right)
	case *LeftOuterJoin:
		f.binary(depth, "LeftOuterJoin "+formatJoinCondition(n.Condition), n.Left, n.Right)
	case *RightOuterJoin:
		f.binary(depth, "RightOuterJoin "+formatJoinCondition(n.Condition), n.Left, n.Right)
	case *FullOuterJoin:
		f.binary(depth, "FullOuterJoin "+formatJoinCondition(n.Condition), n.Left, n.Right)
	case *SemiJoin:
		f.binary(depth, "SemiJoin "+string(n.Side), n.Left, n.Right)
	case *AntiJoin:
		f.binary(depth, "AntiJoin", n.Left, n.Right)
	case *Union:
		f.binary(depth, "Union", n.Left, n.Right)
	case *Intersect:
		f.binary(depth, "Intersect", n.Left, n.Right)
	case *Difference:
		f.binary(depth, "Difference", n.Left, n.Right)
	case *Division:
		f.binary(depth, "Division", n.Left, n.Right)
	default:
		f.line(depth, fmt.Sprintf("<unknown %T>", n))
	}
}

func (f *formatter) binary(depth int, label string, left, right Node) {
	f.line(depth, label)
	f.node(left, depth+1)
	f.node(right, depth+1)
}

// FormatExpr renders an expression tree on one line.
func FormatExpr(e Expr) string {
	var s string
	switch n := e.(type) {
	case nil:
		return "<nil>"
	case *ColumnRef:
		s = formatColumn(n.Relation, n.Column)
	case *FuncExpr:
		if n.Name == ast.FuncConstant {
			lits := make([]string, len(n.Literals))
			for i, l := range n.Literals {
				lits[i] = fmt.Sprintf("%v", l)
			}
			s = strings.Join(lits, ", ")
		} else {
			args := make([]string, len(n.Args))
			for i, a := range n.Args {
				args[i] = FormatExpr(a)
			}
			s = n.Name + "(" + strings.Join(args, ", ") + ")"
		}
	default:
		return fmt.Sprintf("<unknown %T>", e)
	}
	if e.Header().Wrapped {
		return "(" + s + ")"
	}
	return s
}

func formatProjectionItem(it ProjectionItem) string {
	switch {
	case it.Wildcard:
		return formatColumn(it.Relation, "*")
	case it.Expr != nil:
		return it.Name + " = " + FormatExpr(it.Expr)
	default:
		return formatColumn(it.Relation, it.Column)
	}
}

func formatAggregate(a Aggregate) string {
	if a.Func == ast.AggCountAll {
		return a.Name + " = COUNT(*)"
	}
	return a.Name + " = " + string(a.Func) + "(" + formatColumn(a.Relation, a.Column) + ")"
}

func formatColumn(relation, name string) string {
	if relation == "" {
		return name
	}
	return relation + "." + name
}

func formatJoinCondition(c JoinCondition) string {
	if c.Natural {
		if len(c.Restrict) == 0 {
			return "natural"
		}
		return "natural (" + strings.Join(c.Restrict, ", ") + ")"
	}
	return "[" + FormatExpr(c.Theta) + "]"
}
