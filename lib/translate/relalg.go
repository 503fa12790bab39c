package translate

import (
	"github.com/cockroachdb/errors"

	"github.com/RomeoSajina/relax/lib/ast/relast"
	"github.com/RomeoSajina/relax/lib/plan"
)

// relalgNode translates a native relational-algebra AST node. Each AST kind
// maps onto exactly one plan node kind; every produced node passes the
// shared annotate step.
func (t *translator) relalgNode(n relast.Node) (plan.Node, error) {
	switch n := n.(type) {
	case *relast.Relation:
		rel, err := t.relation(n.Name, n.Pos)
		if err != nil {
			return nil, err
		}
		return annotate(rel, n.Info())

	case *relast.Table:
		return t.tableLiteral(n)

	case *relast.Selection:
		input, err := t.relalgNode(n.Input)
		if err != nil {
			return nil, err
		}
		condition, err := valueExpr(n.Condition)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.Selection{Input: input, Condition: condition}, n.Info())

	case *relast.Projection:
		input, err := t.relalgNode(n.Input)
		if err != nil {
			return nil, err
		}
		items := make([]plan.ProjectionItem, 0, len(n.Items))
		for _, item := range n.Items {
			translated, err := projectionItem(item)
			if err != nil {
				return nil, err
			}
			items = append(items, translated)
		}
		return annotate(&plan.Projection{Input: input, Items: items}, n.Info())

	case *relast.OrderBy:
		input, err := t.relalgNode(n.Input)
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

	case *relast.GroupBy:
		input, err := t.relalgNode(n.Input)
		if err != nil {
			return nil, err
		}
		group := make([]plan.Column, len(n.Group))
		for i, col := range n.Group {
			group[i] = plan.Column{Relation: col.Relation, Name: col.Name}
		}
		aggregates := make([]plan.Aggregate, len(n.Aggregates))
		for i, agg := range n.Aggregates {
			aggregates[i] = plan.Aggregate{
				Func:     agg.Func,
				Relation: agg.Relation,
				Column:   agg.Column,
				Name:     agg.Name,
			}
		}
		return annotate(&plan.GroupBy{Input: input, Group: group, Aggregates: aggregates}, n.Info())

	case *relast.Union:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.Union{Left: left, Right: right}, n.Info())

	case *relast.Intersect:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.Intersect{Left: left, Right: right}, n.Info())

	case *relast.Difference:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.Difference{Left: left, Right: right}, n.Info())

	case *relast.Division:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.Division{Left: left, Right: right}, n.Info())

	case *relast.RenameColumns:
		input, err := t.relalgNode(n.Input)
		if err != nil {
			return nil, err
		}
		renamings := make([]plan.Renaming, len(n.Renamings))
		for i, r := range n.Renamings {
			renamings[i] = plan.Renaming{NewName: r.NewName, Relation: r.Relation, OldName: r.OldName}
		}
		return annotate(&plan.RenameColumns{Input: input, Renamings: renamings}, n.Info())

	case *relast.RenameRelation:
		input, err := t.relalgNode(n.Input)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.RenameRelation{Input: input, Name: n.Name}, n.Info())

	case *relast.ThetaJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		theta, err := valueExpr(n.Condition)
		if err != nil {
			return nil, err
		}
		join := &plan.InnerJoin{Left: left, Right: right, Condition: plan.ThetaCondition(theta)}
		return annotate(join, n.Info())

	case *relast.CrossJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.CrossJoin{Left: left, Right: right}, n.Info())

	case *relast.NaturalJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		restrict := append([]string(nil), n.Columns...)
		join := &plan.InnerJoin{Left: left, Right: right, Condition: plan.NaturalCondition(restrict)}
		return annotate(join, n.Info())

	case *relast.LeftSemiJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.SemiJoin{Left: left, Right: right, Side: plan.SemiLeft}, n.Info())

	case *relast.RightSemiJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.SemiJoin{Left: left, Right: right, Side: plan.SemiRight}, n.Info())

	case *relast.AntiJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.AntiJoin{Left: left, Right: right}, n.Info())

	case *relast.LeftOuterJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		condition, err := joinCondition(n.Predicate)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.LeftOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())

	case *relast.RightOuterJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		condition, err := joinCondition(n.Predicate)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.RightOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())

	case *relast.FullOuterJoin:
		left, right, err := t.relalgPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		condition, err := joinCondition(n.Predicate)
		if err != nil {
			return nil, err
		}
		return annotate(&plan.FullOuterJoin{Left: left, Right: right, Condition: condition}, n.Info())

	default:
		return nil, errors.AssertionFailedf("translate: unhandled relational-algebra AST node %T", n)
	}
}

func (t *translator) relalgPair(left, right relast.Node) (plan.Node, plan.Node, error) {
	l, err := t.relalgNode(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := t.relalgNode(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// tableLiteral synthesizes a base relation from an inline table definition:
// the declared columns become the schema, the rows are copied, and the
// relation is marked with the original definition text for later display.
func (t *translator) tableLiteral(n *relast.Table) (plan.Node, error) {
	schema := plan.Schema{Columns: make([]plan.SchemaColumn, len(n.Columns))}
	for i, col := range n.Columns {
		if !col.Type.Known() {
			return nil, errors.AssertionFailedf("translate: inline table column %q has unsupported datatype %q", col.Name, string(col.Type))
		}
		schema.Columns[i] = plan.SchemaColumn{Relation: n.Name, Name: col.Name, Type: col.Type}
	}
	rows := make([][]any, len(n.Rows))
	for i, row := range n.Rows {
		dup := make([]any, len(row))
		copy(dup, row)
		rows[i] = dup
	}
	rel := &plan.Relation{Name: n.Name, Schema: schema, Rows: rows}
	rel.Metadata = map[string]string{plan.MetadataInlineDefinition: n.Source}
	return annotate(rel, n.Info())
}

func projectionItem(item relast.ProjectionItem) (plan.ProjectionItem, error) {
	if item.Expr != nil {
		translated, err := valueExpr(item.Expr)
		if err != nil {
			return plan.ProjectionItem{}, err
		}
		return plan.ProjectionItem{Name: item.Name, Relation: item.Relation, Expr: translated}, nil
	}
	if item.Column == "*" {
		return plan.ProjectionItem{Relation: item.Relation, Wildcard: true}, nil
	}
	return plan.ProjectionItem{Relation: item.Relation, Column: item.Column}, nil
}
