// Package translate compiles the two surface ASTs — SQL statements and
// native relational-algebra expressions — into one canonical plan tree.
// Translation is synchronous, deterministic, and pure over its inputs: the
// same AST and catalog always yield the same tree or the same failure.
//
// Failures come in two kinds. Unresolvable user input (an unknown relation
// name, an ambiguous FROM clause) surfaces as *TranslationError with a
// message key, parameters, and position. Conditions that signal a defect in
// the parser or an unhandled construct surface as assertion failures and are
// not meant to be recovered.
package translate

import (
	"maps"

	"github.com/cockroachdb/errors"

	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/ast/relast"
	"github.com/RomeoSajina/relax/lib/ast/sqlast"
	"github.com/RomeoSajina/relax/lib/catalog"
	"github.com/RomeoSajina/relax/lib/plan"
	"github.com/RomeoSajina/relax/lib/source"
)

// FromSQL translates a SQL AST root against the given catalog. When the root
// statement omits DISTINCT, the plan node produced for that statement (not
// any ORDER BY or LIMIT wrapper above it) carries a bag-semantics advisory,
// since results are evaluated with duplicate-preserving semantics.
func FromSQL(root sqlast.Node, cat *catalog.Catalog) (plan.Node, error) {
	if root == nil {
		return nil, errors.AssertionFailedf("translate: nil SQL AST root")
	}
	t := &translator{cat: cat, rootStmt: rootStatement(root)}
	return t.sqlNode(root)
}

// FromRelalg translates a native relational-algebra AST root against the
// given catalog.
func FromRelalg(root relast.Node, cat *catalog.Catalog) (plan.Node, error) {
	if root == nil {
		return nil, errors.AssertionFailedf("translate: nil relational-algebra AST root")
	}
	t := &translator{cat: cat}
	return t.relalgNode(root)
}

type translator struct {
	cat *catalog.Catalog
	// rootStmt is the statement the SQL root resolves to, if any; only that
	// statement raises the bag-semantics advisory.
	rootStmt *sqlast.Statement
}

// relation resolves a catalog reference and copies the entry, so repeated
// references to one relation within a statement own disjoint subtrees.
func (t *translator) relation(name string, pos source.Range) (*plan.Relation, error) {
	base, ok := t.cat.Get(name)
	if !ok {
		return nil, relationNotFound(name, pos)
	}
	return base.Copy(), nil
}

// annotate applies the AST node's annotations to a freshly built plan node:
// the mandatory source position, the parenthesization flag, and any metadata
// copied verbatim. Every produced node passes through here exactly once.
func annotate(node plan.Node, info *ast.NodeInfo) (plan.Node, error) {
	if node == nil {
		return nil, errors.AssertionFailedf("translate: stage produced no plan node")
	}
	if info == nil || !info.Pos.IsValid() {
		return nil, errors.AssertionFailedf("translate: AST node lacks a source position")
	}
	h := node.Header()
	h.Pos = info.Pos
	h.Wrapped = info.Wrapped
	if len(info.Metadata) > 0 {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string, len(info.Metadata))
		}
		maps.Copy(h.Metadata, info.Metadata)
	}
	return node, nil
}

// rootStatement unwraps ORDER BY and LIMIT wrappers to reach the statement a
// SQL root resolves to, if any.
func rootStatement(root sqlast.Node) *sqlast.Statement {
	for {
		switch n := root.(type) {
		case *sqlast.Statement:
			return n
		case *sqlast.OrderBy:
			root = n.Input
		case *sqlast.Limit:
			root = n.Input
		default:
			return nil
		}
	}
}
