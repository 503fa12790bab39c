package translate

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/ast/sqlast"
	"github.com/RomeoSajina/relax/lib/plan"
	"github.com/RomeoSajina/relax/lib/source"
)

// sqlNode translates a SQL AST node into a plan subtree.
func (t *translator) sqlNode(n sqlast.Node) (plan.Node, error) {
	switch n := n.(type) {
	case *sqlast.Relation:
		rel, err := t.relation(n.Name, n.Pos)
		if err != nil {
			return nil, err
		}
		return annotate(rel, n.Info())

	case *sqlast.RenameRelation:
		input, err := t.sqlNode(n.Input)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.RenameRelation{Input: input, Name: n.Name}, n.Info())

	case *sqlast.RelationFromSubstatement:
		input, err := t.sqlNode(n.Statement)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.RenameRelation{Input: input, Name: n.Name}, n.Info())

	case *sqlast.Statement:
		return t.statement(n)

	case *sqlast.Join:
		return t.sqlJoin(n)

	case *sqlast.SetOp:
		return t.setOp(n)

	case *sqlast.OrderBy:
		input, err := t.sqlNode(n.Input)
		if err != nil {
			return nil, err
		}
		columns := make([]plan.Column, len(n.Terms))
		ascending := make([]bool, len(n.Terms))
		for i, term := range n.Terms {
			columns[i] = plan.Column{Relation: term.Column.Relation, Name: term.Column.Name}
			ascending[i] = term.Ascending
		}
		return annotate(&plan.OrderBy{Input: input, Columns: columns, Ascending: ascending}, n.Info())

	case *sqlast.Limit:
		return t.limit(n)

	default:
		return nil, errors.AssertionFailedf("translate: unhandled SQL AST node %T", n)
	}
}

// statement compiles a SELECT statement by threading one evolving root
// through the clause stages in order: FROM, WHERE, GROUP BY/aggregation,
// HAVING, projection, column rename. Each stage conditionally wraps the
// root in one operator layer.
func (t *translator) statement(stmt *sqlast.Statement) (plan.Node, error) {
	if stmt.From == nil {
		return nil, errors.AssertionFailedf("translate: statement lacks a FROM clause")
	}
	root, err := t.sqlNode(stmt.From)
	if err != nil {
		return nil, err
	}
	// Surface schema conflicts before any later clause references an
	// ambiguous column.
	if err := checkFromStructure(root); err != nil {
		return nil, err
	}

	if stmt.Where != nil {
		condition, err := valueExpr(stmt.Where)
		if err != nil {
			return nil, err
		}
		root, err = annotateAt(&plan.Selection{Input: root, Condition: condition}, stmt.WherePos)
		if err != nil {
			return nil, err
		}
	}

	root, err = t.grouping(stmt, root)
	if err != nil {
		return nil, err
	}

	if stmt.Having != nil {
		condition, err := valueExpr(stmt.Having)
		if err != nil {
			return nil, err
		}
		root, err = annotateAt(&plan.Selection{Input: root, Condition: condition}, stmt.HavingPos)
		if err != nil {
			return nil, err
		}
	}

	root, err = t.projection(stmt, root)
	if err != nil {
		return nil, err
	}
	if stmt == t.rootStmt && !stmt.Distinct {
		root.Header().AddWarning(plan.Warning{Key: plan.WarnDistinctMissing, Pos: stmt.Pos})
	}
	return root, nil
}

// grouping inserts the aggregation layer. A GroupBy is built iff the SELECT
// list contains at least one aggregate entry; a GROUP BY clause without
// aggregates degenerates to a projection over the grouping columns.
func (t *translator) grouping(stmt *sqlast.Statement, root plan.Node) (plan.Node, error) {
	var aggregates []plan.Aggregate
	for _, item := range stmt.Select {
		if agg, ok := item.(*sqlast.AggregateItem); ok {
			aggregates = append(aggregates, plan.Aggregate{
				Func:     agg.Func,
				Relation: agg.Relation,
				Column:   agg.Column,
				Name:     agg.Name,
			})
		}
	}
	if len(aggregates) != stmt.NumAggregates {
		return nil, errors.AssertionFailedf(
			"translate: statement declares %d aggregate columns but its SELECT list carries %d",
			stmt.NumAggregates, len(aggregates))
	}

	pos := stmt.GroupByPos
	if !pos.IsValid() {
		pos = stmt.Pos
	}

	if len(aggregates) > 0 {
		group := make([]plan.Column, len(stmt.GroupBy))
		for i, col := range stmt.GroupBy {
			group[i] = plan.Column{Relation: col.Relation, Name: col.Name}
		}
		return annotateAt(&plan.GroupBy{Input: root, Group: group, Aggregates: aggregates}, pos)
	}

	if len(stmt.GroupBy) > 0 {
		items := make([]plan.ProjectionItem, len(stmt.GroupBy))
		for i, col := range stmt.GroupBy {
			items[i] = plan.ProjectionItem{Relation: col.Relation, Column: col.Name}
		}
		return annotateAt(&plan.Projection{Input: root, Items: items}, pos)
	}

	return root, nil
}

// projection builds the SELECT-list projection and, when any plain column
// carries an alias, one RenameColumns layer directly above it. The bare
// unqualified wildcard is a no-op: the root already exposes all columns.
func (t *translator) projection(stmt *sqlast.Statement, root plan.Node) (plan.Node, error) {
	if len(stmt.Select) == 0 {
		return nil, errors.AssertionFailedf("translate: statement has an empty SELECT list")
	}
	if len(stmt.Select) == 1 {
		if star, ok := stmt.Select[0].(*sqlast.StarItem); ok && star.Relation == "" {
			return root, nil
		}
	}

	items := make([]plan.ProjectionItem, 0, len(stmt.Select))
	var renamings []plan.Renaming
	for _, item := range stmt.Select {
		switch item := item.(type) {
		case *sqlast.StarItem:
			items = append(items, plan.ProjectionItem{Relation: item.Relation, Wildcard: true})
		case *sqlast.ColumnItem:
			items = append(items, plan.ProjectionItem{Relation: item.Relation, Column: item.Name})
			if item.Alias != "" {
				renamings = append(renamings, plan.Renaming{
					NewName:  item.Alias,
					Relation: item.Relation,
					OldName:  item.Name,
				})
			}
		case *sqlast.AggregateItem:
			// The grouping stage already renamed the aggregate output, so
			// it is projected by bare name only.
			items = append(items, plan.ProjectionItem{Column: item.Name})
		case *sqlast.ExprItem:
			translated, err := valueExpr(item.Expr)
			if err != nil {
				return nil, err
			}
			items = append(items, plan.ProjectionItem{Name: item.Name, Relation: item.Relation, Expr: translated})
		default:
			return nil, errors.AssertionFailedf("translate: unhandled SELECT list item %T", item)
		}
	}

	root, err := annotateAt(&plan.Projection{Input: root, Items: items}, stmt.Pos)
	if err != nil {
		return nil, err
	}
	if len(renamings) > 0 {
		return annotateAt(&plan.RenameColumns{Input: root, Renamings: renamings}, stmt.Pos)
	}
	return root, nil
}

func (t *translator) sqlJoin(n *sqlast.Join) (plan.Node, error) {
	left, err := t.sqlNode(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.sqlNode(n.Right)
	if err != nil {
		return nil, err
	}

	if n.Kind == sqlast.JoinCross {
		return annotate(&plan.CrossJoin{Left: left, Right: right}, n.Info())
	}

	condition, err := joinCondition(n.Predicate)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case sqlast.JoinInner:
		return annotate(&plan.InnerJoin{Left: left, Right: right, Condition: condition}, n.Info())
	case sqlast.JoinLeft:
		return annotate(&plan.LeftOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())
	case sqlast.JoinRight:
		return annotate(&plan.RightOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())
	case sqlast.JoinFull:
		return annotate(&plan.FullOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())
	default:
		return nil, errors.AssertionFailedf("translate: unhandled join kind %q", string(n.Kind))
	}
}

// setOp translates UNION/INTERSECT/EXCEPT. Only set semantics is
// implemented, so an ALL qualifier raises an advisory and is otherwise
// ignored.
func (t *translator) setOp(n *sqlast.SetOp) (plan.Node, error) {
	left, err := t.sqlNode(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.sqlNode(n.Right)
	if err != nil {
		return nil, err
	}

	var node plan.Node
	switch n.Op {
	case sqlast.SetUnion:
		node = &plan.Union{Left: left, Right: right}
	case sqlast.SetIntersect:
		node = &plan.Intersect{Left: left, Right: right}
	case sqlast.SetExcept:
		node = &plan.Difference{Left: left, Right: right}
	default:
		return nil, errors.AssertionFailedf("translate: unhandled set operator %q", string(n.Op))
	}
	node, err = annotate(node, n.Info())
	if err != nil {
		return nil, err
	}
	if n.All {
		node.Header().AddWarning(plan.Warning{Key: plan.WarnSetAllIgnored, Pos: n.Pos})
	}
	return node, nil
}

// limit lowers LIMIT/OFFSET into a Selection over the rownum pseudo-column:
// rownum > offset, and when a count is given, rownum <= count+offset. The
// lower bound is strict and the upper bound inclusive; rownum ordering is
// the executor's contract.
func (t *translator) limit(n *sqlast.Limit) (plan.Node, error) {
	input, err := t.sqlNode(n.Input)
	if err != nil {
		return nil, err
	}

	lower := boolExpr(">", rownumRef(n.Pos), numberConstant(n.Offset, n.Pos), n.Pos)
	condition := lower
	if !n.All {
		upper := boolExpr("<=", rownumRef(n.Pos), numberConstant(n.Count+n.Offset, n.Pos), n.Pos)
		condition = boolExpr("and", lower, upper, n.Pos)
	}
	return annotate(&plan.Selection{Input: input, Condition: condition}, n.Info())
}

// annotateAt annotates a node synthesized from a clause rather than from a
// whole AST node.
func annotateAt(node plan.Node, pos source.Range) (plan.Node, error) {
	return annotate(node, &ast.NodeInfo{Pos: pos})
}

func rownumRef(pos source.Range) plan.Expr {
	ref := &plan.ColumnRef{Column: "rownum"}
	ref.Pos = pos
	return ref
}

func numberConstant(value int, pos source.Range) plan.Expr {
	e := &plan.FuncExpr{
		Datatype: ast.TypeNumber,
		Name:     ast.FuncConstant,
		Literals: []any{decimal.NewFromInt(int64(value))},
	}
	e.Pos = pos
	return e
}

func boolExpr(op string, left, right plan.Expr, pos source.Range) plan.Expr {
	e := &plan.FuncExpr{Datatype: ast.TypeBoolean, Name: op, Args: []plan.Expr{left, right}}
	e.Pos = pos
	return e
}

// checkFromStructure is the structural self-check run on the translated
// FROM subtree: every node must already carry a position, and the relation
// names it exposes must be unambiguous. A RenameRelation hides everything
// beneath it.
func checkFromStructure(root plan.Node) error {
	var missing plan.Node
	plan.Inspect(root, func(n plan.Node) bool {
		if missing == nil && !n.Header().Pos.IsValid() {
			missing = n
		}
		return missing == nil
	})
	if missing != nil {
		return errors.AssertionFailedf("translate: FROM subtree node %T lacks a source position", missing)
	}

	seen := make(map[string]struct{})
	return collectRelationNames(root, seen)
}

func collectRelationNames(n plan.Node, seen map[string]struct{}) error {
	register := func(name string, pos source.Range) error {
		if _, dup := seen[name]; dup {
			return duplicateRelation(name, pos)
		}
		seen[name] = struct{}{}
		return nil
	}

	switch n := n.(type) {
	case *plan.Relation:
		return register(n.Name, n.Pos)
	case *plan.RenameRelation:
		return register(n.Name, n.Pos)
	case *plan.CrossJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.InnerJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.LeftOuterJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.RightOuterJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.FullOuterJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.SemiJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	case *plan.AntiJoin:
		return collectRelationPair(n.Left, n.Right, seen)
	default:
		// Set operations and statement internals expose their own output
		// schema, not base relation names.
		return nil
	}
}

func collectRelationPair(left, right plan.Node, seen map[string]struct{}) error {
	if err := collectRelationNames(left, seen); err != nil {
		return err
	}
	return collectRelationNames(right, seen)
}
