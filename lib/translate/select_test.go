package translate_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/ast/sqlast"
	"github.com/RomeoSajina/relax/lib/plan"
	"github.com/RomeoSajina/relax/lib/source"
	"github.com/RomeoSajina/relax/lib/translate"
)

func TestWildcardSelectIsNoOp(t *testing.T) {
	stmt := selectStar(sqlRelation("R", 1, 15))

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	rel, ok := root.(*plan.Relation)
	require.True(t, ok, "expected the FROM relation itself, got %T", root)
	assert.Equal(t, "R", rel.Name)
	assert.Equal(t, source.Span(1, 15, 19), rel.Pos)
}

func TestMissingDistinctRaisesBagSemanticsWarning(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 15), columnItem("a"))

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	require.Len(t, root.Header().Warnings, 1)
	w := root.Header().Warnings[0]
	assert.Equal(t, plan.WarnDistinctMissing, w.Key)
	assert.Equal(t, stmt.Pos, w.Pos)
}

func TestDistinctSuppressesBagSemanticsWarning(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 24), columnItem("a"))
	stmt.Distinct = true

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)
	assert.Empty(t, root.Header().Warnings)
}

func TestBagSemanticsWarningAttachesToStatementNode(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 15), columnItem("a"))
	ordered := &sqlast.OrderBy{
		NodeInfo: info(2, 1),
		Input:    stmt,
		Terms:    []sqlast.OrderTerm{{Column: sqlast.Column{Name: "a", Pos: source.Span(2, 10, 11)}, Ascending: true}},
	}
	wrapped := &sqlast.Limit{NodeInfo: info(3, 1), Input: ordered, Count: 3}

	root, err := translate.FromSQL(wrapped, testCatalog(t))
	require.NoError(t, err)

	// ORDER BY and LIMIT wrappers stay clean; the advisory sits on the node
	// the statement itself produced.
	limit, ok := root.(*plan.Selection)
	require.True(t, ok)
	assert.Empty(t, limit.Warnings)
	order, ok := limit.Input.(*plan.OrderBy)
	require.True(t, ok)
	assert.Empty(t, order.Warnings)

	proj, ok := order.Input.(*plan.Projection)
	require.True(t, ok)
	require.Len(t, proj.Warnings, 1)
	assert.Equal(t, plan.WarnDistinctMissing, proj.Warnings[0].Key)
	assert.Equal(t, stmt.Pos, proj.Warnings[0].Pos)
}

func TestWhereWrapsSelection(t *testing.T) {
	stmt := selectStar(sqlRelation("R", 1, 15))
	stmt.Where = comparison(">", columnValue("R", "a", 1, 23), numberLiteral(5, 1, 29), 1, 23)
	stmt.WherePos = source.Span(1, 17, 30)

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	sel, ok := root.(*plan.Selection)
	require.True(t, ok)
	// The selection takes the WHERE clause position, not the expression's.
	assert.Equal(t, stmt.WherePos, sel.Pos)
	assert.Equal(t, "Selection [>(R.a, 5)]\n  Relation R", plan.Format(sel))
}

func TestProjectionWithoutAliasHasNoRenameLayer(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 18), columnItem("a"), columnItem("b"))

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	proj, ok := root.(*plan.Projection)
	require.True(t, ok, "expected a bare projection, got %T", root)
	assert.Equal(t, "Projection [a, b]\n  Relation R", plan.Format(proj))
}

func TestAliasTriggersRenameAboveProjection(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 23), aliasedItem("a", "x"), columnItem("b"))

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	rename, ok := root.(*plan.RenameColumns)
	require.True(t, ok, "expected a rename layer, got %T", root)
	require.Equal(t, []plan.Renaming{{NewName: "x", OldName: "a"}}, rename.Renamings)

	proj, ok := rename.Input.(*plan.Projection)
	require.True(t, ok, "rename must sit directly above the projection")
	assert.Equal(t, "Projection [a, b]\n  Relation R", plan.Format(proj))
}

func TestQualifiedStarStillProjects(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 17), &sqlast.StarItem{NodeInfo: info(1, 8), Relation: "R"})

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, "Projection [R.*]\n  Relation R", plan.Format(root))
}

func TestComputedExpressionProjectsUnderName(t *testing.T) {
	expr := comparison("+", columnValue("R", "a", 1, 8), numberLiteral(1, 1, 12), 1, 8)
	expr.Datatype = ast.TypeNumber
	stmt := selectItems(sqlRelation("R", 1, 28),
		&sqlast.ExprItem{NodeInfo: info(1, 8), Name: "next", Expr: expr})

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	// Computed items embed their output name; no rename layer appears.
	proj, ok := root.(*plan.Projection)
	require.True(t, ok, "expected a projection, got %T", root)
	assert.Equal(t, "Projection [next = +(R.a, 1)]\n  Relation R", plan.Format(proj))
}

func TestAggregateBuildsGroupBy(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 23),
		&sqlast.AggregateItem{NodeInfo: info(1, 8), Func: ast.AggCountAll, Name: "n"})
	stmt.NumAggregates = 1
	stmt.GroupBy = []sqlast.Column{{Name: "c", Pos: source.Span(1, 34, 35)}}
	stmt.GroupByPos = source.Span(1, 25, 35)

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	proj, ok := root.(*plan.Projection)
	require.True(t, ok)
	// The aggregate output was renamed by the GroupBy stage, so the
	// projection references it by bare name.
	require.Equal(t, []plan.ProjectionItem{{Column: "n"}}, proj.Items)

	gb, ok := proj.Input.(*plan.GroupBy)
	require.True(t, ok, "expected a GroupBy layer, got %T", proj.Input)
	assert.Equal(t, stmt.GroupByPos, gb.Pos)
	assert.Equal(t, []plan.Column{{Name: "c"}}, gb.Group)
	assert.Equal(t, []plan.Aggregate{{Func: ast.AggCountAll, Name: "n"}}, gb.Aggregates)
}

func TestGroupByWithoutAggregatesFallsBackToProjection(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 15), columnItem("c"))
	stmt.GroupBy = []sqlast.Column{{Name: "c", Pos: source.Span(1, 26, 27)}}
	stmt.GroupByPos = source.Span(1, 17, 27)

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	var groupBys int
	plan.Inspect(root, func(n plan.Node) bool {
		if _, ok := n.(*plan.GroupBy); ok {
			groupBys++
		}
		return true
	})
	assert.Zero(t, groupBys, "no GroupBy may appear without aggregates")
	assert.Equal(t, "Projection [c]\n  Projection [c]\n    Relation R", plan.Format(root))
}

func TestAggregateCountMismatchIsInternalFailure(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 23),
		&sqlast.AggregateItem{NodeInfo: info(1, 8), Func: ast.AggCountAll, Name: "n"})
	stmt.NumAggregates = 2

	_, err := translate.FromSQL(stmt, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestHavingWrapsSelectionAboveGroupBy(t *testing.T) {
	stmt := selectItems(sqlRelation("R", 1, 23),
		&sqlast.AggregateItem{NodeInfo: info(1, 8), Func: ast.AggCountAll, Name: "n"})
	stmt.NumAggregates = 1
	stmt.GroupByPos = source.Span(1, 25, 35)
	stmt.Having = comparison(">", columnValue("", "n", 1, 44), numberLiteral(2, 1, 48), 1, 44)
	stmt.HavingPos = source.Span(1, 37, 49)

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.NoError(t, err)

	proj, ok := root.(*plan.Projection)
	require.True(t, ok)
	sel, ok := proj.Input.(*plan.Selection)
	require.True(t, ok, "HAVING must wrap the grouped tree, got %T", proj.Input)
	assert.Equal(t, stmt.HavingPos, sel.Pos)
	_, ok = sel.Input.(*plan.GroupBy)
	assert.True(t, ok)
}

func TestLimitOffsetBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		limit *sqlast.Limit
		want  string
	}{
		{
			name:  "limit and offset",
			limit: &sqlast.Limit{NodeInfo: info(2, 1), Count: 10, Offset: 5},
			want:  "Selection [and(>(rownum, 5), <=(rownum, 15))]",
		},
		{
			name:  "limit all keeps only the lower bound",
			limit: &sqlast.Limit{NodeInfo: info(2, 1), All: true, Offset: 5},
			want:  "Selection [>(rownum, 5)]",
		},
		{
			name:  "limit without offset starts at zero",
			limit: &sqlast.Limit{NodeInfo: info(2, 1), Count: 10},
			want:  "Selection [and(>(rownum, 0), <=(rownum, 10))]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.limit.Input = selectStar(sqlRelation("R", 1, 15))
			root, err := translate.FromSQL(tt.limit, testCatalog(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n  Relation R", plan.Format(root))
		})
	}
}

func TestOrderBy(t *testing.T) {
	ob := &sqlast.OrderBy{
		NodeInfo: info(2, 1),
		Input:    selectStar(sqlRelation("R", 1, 15)),
		Terms: []sqlast.OrderTerm{
			{Column: sqlast.Column{Relation: "R", Name: "a", Pos: source.Span(2, 10, 11)}, Ascending: true},
			{Column: sqlast.Column{Name: "b", Pos: source.Span(2, 17, 18)}},
		},
	}

	root, err := translate.FromSQL(ob, testCatalog(t))
	require.NoError(t, err)

	node, ok := root.(*plan.OrderBy)
	require.True(t, ok)
	assert.Equal(t, []plan.Column{{Relation: "R", Name: "a"}, {Name: "b"}}, node.Columns)
	assert.Equal(t, []bool{true, false}, node.Ascending)
}

func TestMissingRelationFails(t *testing.T) {
	stmt := selectStar(sqlRelation("ghost", 1, 15))

	root, err := translate.FromSQL(stmt, testCatalog(t))
	require.Nil(t, root, "no partial tree on failure")

	var terr *translate.TranslationError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, translate.KeyRelationNotFound, terr.Key)
	assert.Equal(t, map[string]string{"name": "ghost"}, terr.Params)
	assert.Equal(t, source.Span(1, 15, 19), terr.Pos)
	assert.False(t, errors.HasAssertionFailure(err))
}

func TestDuplicateRelationInFromFails(t *testing.T) {
	join := &sqlast.Join{
		NodeInfo: info(1, 15),
		Kind:     sqlast.JoinCross,
		Left:     sqlRelation("R", 1, 15),
		Right:    sqlRelation("R", 1, 29),
	}

	_, err := translate.FromSQL(selectStar(join), testCatalog(t))

	var terr *translate.TranslationError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, translate.KeyDuplicateRelation, terr.Key)
	assert.Equal(t, map[string]string{"name": "R"}, terr.Params)
}

func TestAliasedSelfJoinCopiesAreIsolated(t *testing.T) {
	join := &sqlast.Join{
		NodeInfo: info(1, 15),
		Kind:     sqlast.JoinCross,
		Left:     sqlRelation("R", 1, 15),
		Right: &sqlast.RenameRelation{
			NodeInfo: info(1, 29),
			Input:    sqlRelation("R", 1, 29),
			Name:     "S2",
		},
	}

	root, err := translate.FromSQL(selectStar(join), testCatalog(t))
	require.NoError(t, err)

	var leaves []*plan.Relation
	plan.Inspect(root, func(n plan.Node) bool {
		if rel, ok := n.(*plan.Relation); ok {
			leaves = append(leaves, rel)
		}
		return true
	})
	require.Len(t, leaves, 2)

	leaves[0].Rows[0][0] = "mutated"
	leaves[0].Metadata = map[string]string{"touched": "yes"}
	assert.NotEqual(t, "mutated", leaves[1].Rows[0][0])
	assert.Empty(t, leaves[1].Metadata)
}

func TestSetOperators(t *testing.T) {
	newSetOp := func(op sqlast.SetOpKind, all bool) *sqlast.SetOp {
		return &sqlast.SetOp{
			NodeInfo: info(1, 1),
			Op:       op,
			All:      all,
			Left:     selectItems(sqlRelation("R", 1, 15), columnItem("b")),
			Right:    selectItems(sqlRelation("S", 2, 15), columnItem("b")),
		}
	}

	t.Run("union all warns and keeps set semantics", func(t *testing.T) {
		root, err := translate.FromSQL(newSetOp(sqlast.SetUnion, true), testCatalog(t))
		require.NoError(t, err)

		union, ok := root.(*plan.Union)
		require.True(t, ok)
		require.Len(t, union.Warnings, 1)
		assert.Equal(t, plan.WarnSetAllIgnored, union.Warnings[0].Key)
	})

	t.Run("plain set operators carry no warning", func(t *testing.T) {
		root, err := translate.FromSQL(newSetOp(sqlast.SetIntersect, false), testCatalog(t))
		require.NoError(t, err)

		_, ok := root.(*plan.Intersect)
		require.True(t, ok)
		assert.Empty(t, root.Header().Warnings)
	})

	t.Run("except maps to difference", func(t *testing.T) {
		root, err := translate.FromSQL(newSetOp(sqlast.SetExcept, false), testCatalog(t))
		require.NoError(t, err)
		_, ok := root.(*plan.Difference)
		assert.True(t, ok)
	})
}

func TestJoinKinds(t *testing.T) {
	theta := comparison("=", columnValue("R", "b", 1, 40), columnValue("S", "b", 1, 46), 1, 40)

	tests := []struct {
		name string
		join *sqlast.Join
		want string
	}{
		{
			name: "inner join on expression",
			join: &sqlast.Join{Kind: sqlast.JoinInner, Predicate: &ast.JoinPredicate{Cond: theta}},
			want: "InnerJoin [=(R.b, S.b)]",
		},
		{
			name: "natural inner join",
			join: &sqlast.Join{Kind: sqlast.JoinInner},
			want: "InnerJoin natural",
		},
		{
			name: "join using columns",
			join: &sqlast.Join{Kind: sqlast.JoinInner, Predicate: &ast.JoinPredicate{Columns: []string{"b"}}},
			want: "InnerJoin natural (b)",
		},
		{
			name: "left outer join",
			join: &sqlast.Join{Kind: sqlast.JoinLeft},
			want: "LeftOuterJoin natural",
		},
		{
			name: "right outer join",
			join: &sqlast.Join{Kind: sqlast.JoinRight, Predicate: &ast.JoinPredicate{Cond: theta}},
			want: "RightOuterJoin [=(R.b, S.b)]",
		},
		{
			name: "full outer join",
			join: &sqlast.Join{Kind: sqlast.JoinFull},
			want: "FullOuterJoin natural",
		},
		{
			name: "cross join",
			join: &sqlast.Join{Kind: sqlast.JoinCross},
			want: "CrossJoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.join.NodeInfo = info(1, 15)
			tt.join.Left = sqlRelation("R", 1, 15)
			tt.join.Right = sqlRelation("S", 1, 29)

			root, err := translate.FromSQL(selectStar(tt.join), testCatalog(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n  Relation R\n  Relation S", plan.Format(root))
		})
	}
}

func TestSubstatementIsWrappedInRename(t *testing.T) {
	sub := selectItems(sqlRelation("R", 2, 20), columnItem("a"))
	from := &sqlast.RelationFromSubstatement{
		NodeInfo:  info(1, 15),
		Statement: sub,
		Name:      "T",
	}

	root, err := translate.FromSQL(selectStar(from), testCatalog(t))
	require.NoError(t, err)

	rename, ok := root.(*plan.RenameRelation)
	require.True(t, ok, "expected a rename wrapper, got %T", root)
	assert.Equal(t, "T", rename.Name)
	_, ok = rename.Input.(*plan.Projection)
	assert.True(t, ok)
}

func TestStatementWithoutFromIsInternalFailure(t *testing.T) {
	stmt := &sqlast.Statement{
		NodeInfo: info(1, 1),
		Select:   []sqlast.SelectItem{columnItem("a")},
	}

	_, err := translate.FromSQL(stmt, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestMissingPositionIsInternalFailure(t *testing.T) {
	stmt := selectStar(&sqlast.Relation{Name: "R"}) // no position stamped

	_, err := translate.FromSQL(stmt, testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestTranslationIsDeterministic(t *testing.T) {
	build := func() sqlast.Node {
		stmt := selectItems(sqlRelation("R", 1, 30), aliasedItem("a", "x"), columnItem("b"))
		stmt.Where = comparison(">", columnValue("R", "a", 1, 42), numberLiteral(5, 1, 48), 1, 42)
		stmt.WherePos = source.Span(1, 36, 49)
		return &sqlast.Limit{NodeInfo: info(2, 1), Input: stmt, Count: 3, Offset: 1}
	}

	cat := testCatalog(t)
	first, err := translate.FromSQL(build(), cat)
	require.NoError(t, err)
	second, err := translate.FromSQL(build(), cat)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, plan.Format(first), plan.Format(second))
}
