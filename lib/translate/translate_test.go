package translate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/ast/sqlast"
	"github.com/RomeoSajina/relax/lib/catalog"
	"github.com/RomeoSajina/relax/lib/plan"
	"github.com/RomeoSajina/relax/lib/source"
)

func info(line, col int) ast.NodeInfo {
	return ast.NodeInfo{Pos: source.Span(line, col, col+4)}
}

func baseRelation(name string, columns ...string) *plan.Relation {
	schema := plan.Schema{Columns: make([]plan.SchemaColumn, len(columns))}
	row := make([]any, len(columns))
	for i, col := range columns {
		schema.Columns[i] = plan.SchemaColumn{Relation: name, Name: col, Type: ast.TypeNumber}
		row[i] = i
	}
	return &plan.Relation{Name: name, Schema: schema, Rows: [][]any{row}}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.Register(baseRelation("R", "a", "b", "c")))
	require.NoError(t, cat.Register(baseRelation("S", "b", "d")))
	return cat
}

// SQL AST builders.

func sqlRelation(name string, line, col int) *sqlast.Relation {
	return &sqlast.Relation{NodeInfo: info(line, col), Name: name}
}

func selectStar(from sqlast.Node) *sqlast.Statement {
	return selectItems(from, &sqlast.StarItem{NodeInfo: info(1, 8)})
}

func selectItems(from sqlast.Node, items ...sqlast.SelectItem) *sqlast.Statement {
	return &sqlast.Statement{
		NodeInfo: info(1, 1),
		Select:   items,
		From:     from,
	}
}

func columnItem(name string) *sqlast.ColumnItem {
	return &sqlast.ColumnItem{NodeInfo: info(1, 8), Name: name}
}

func aliasedItem(name, alias string) *sqlast.ColumnItem {
	return &sqlast.ColumnItem{NodeInfo: info(1, 8), Name: name, Alias: alias}
}

// Value-expression builders.

func columnValue(relation, column string, line, col int) *ast.ValueExpr {
	return &ast.ValueExpr{
		NodeInfo: info(line, col),
		Datatype: ast.TypeNull,
		Func:     ast.FuncColumnValue,
		Args:     []any{relation, column},
	}
}

func numberLiteral(v int64, line, col int) *ast.ValueExpr {
	return &ast.ValueExpr{
		NodeInfo: info(line, col),
		Datatype: ast.TypeNumber,
		Func:     ast.FuncConstant,
		Args:     []any{decimal.NewFromInt(v)},
	}
}

func comparison(op string, left, right *ast.ValueExpr, line, col int) *ast.ValueExpr {
	return &ast.ValueExpr{
		NodeInfo: info(line, col),
		Datatype: ast.TypeBoolean,
		Func:     op,
		Args:     []any{left, right},
	}
}
