package translate

import (
	"github.com/RomeoSajina/relax/lib/ast"
	"github.com/RomeoSajina/relax/lib/plan"
)

// joinCondition normalizes a raw join qualifier into a tagged JoinCondition:
// absent means a natural join over all shared columns, a column list means a
// natural join restricted to those columns, and a boolean expression means a
// theta join. Errors surface only from the nested expression translation.
func joinCondition(pred *ast.JoinPredicate) (plan.JoinCondition, error) {
	switch {
	case pred == nil:
		return plan.NaturalCondition(nil), nil
	case len(pred.Columns) > 0:
		return plan.NaturalCondition(append([]string(nil), pred.Columns...)), nil
	case pred.Cond != nil:
		theta, err := valueExpr(pred.Cond)
		if err != nil {
			return plan.JoinCondition{}, err
		}
		return plan.ThetaCondition(theta), nil
	default:
		// An empty predicate behaves like an absent one.
		return plan.NaturalCondition(nil), nil
	}
}
