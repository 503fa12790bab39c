package plan

// Visitor is implemented by algorithms that walk a plan tree.
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses the plan tree rooted at node in preorder using the provided
// visitor. Children are visited left before right.
func Walk(v Visitor, node Node) {
	if node == nil || v == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Relation:
		// leaf
	case *Selection:
		Walk(v, n.Input)
	case *Projection:
		Walk(v, n.Input)
	case *OrderBy:
		Walk(v, n.Input)
	case *GroupBy:
		Walk(v, n.Input)
	case *RenameColumns:
		Walk(v, n.Input)
	case *RenameRelation:
		Walk(v, n.Input)
	case *CrossJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *InnerJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *LeftOuterJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *RightOuterJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *FullOuterJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *SemiJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *AntiJoin:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Union:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Intersect:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Difference:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *Division:
		Walk(v, n.Left)
		Walk(v, n.Right)
	}

	v.Visit(nil)
}

// Inspect walks the tree calling f on every node; returning false skips the
// node's children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node == nil {
		return nil
	}
	if f(node) {
		return f
	}
	return nil
}
