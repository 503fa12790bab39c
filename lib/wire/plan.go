// Package wire flattens a compiled plan tree into a kind-tagged envelope and
// encodes it with MessagePack, so executors and renderers in other processes
// can consume a plan without linking the compiler.
package wire

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RomeoSajina/relax/lib/plan"
)

// Node kinds used on the wire.
const (
	KindRelation       = "relation"
	KindSelection      = "selection"
	KindProjection     = "projection"
	KindOrderBy        = "orderBy"
	KindGroupBy        = "groupBy"
	KindRenameColumns  = "renameColumns"
	KindRenameRelation = "renameRelation"
	KindCrossJoin      = "crossJoin"
	KindInnerJoin      = "innerJoin"
	KindLeftOuterJoin  = "leftOuterJoin"
	KindRightOuterJoin = "rightOuterJoin"
	KindFullOuterJoin  = "fullOuterJoin"
	KindSemiJoin       = "semiJoin"
	KindAntiJoin       = "antiJoin"
	KindUnion          = "union"
	KindIntersect      = "intersect"
	KindDifference     = "difference"
	KindDivision       = "division"
)

// Position mirrors a source location on the wire.
type Position struct {
	Line   int `msgpack:"line"`
	Column int `msgpack:"col"`
}

// Span mirrors a source range.
type Span struct {
	Start Position `msgpack:"start"`
	End   Position `msgpack:"end"`
}

// Warning mirrors an advisory attached to a node.
type Warning struct {
	Key    string            `msgpack:"key"`
	Params map[string]string `msgpack:"params,omitempty"`
	Pos    Span              `msgpack:"pos"`
}

// Node is one operator of the flattened plan. Detail carries the canonical
// one-line rendering of the operator's parameters (condition, projected
// items, renamings); Name carries the relation name where one applies.
type Node struct {
	Kind     string            `msgpack:"kind"`
	Name     string            `msgpack:"name,omitempty"`
	Detail   string            `msgpack:"detail,omitempty"`
	Pos      Span              `msgpack:"pos"`
	Wrapped  bool              `msgpack:"wrapped,omitempty"`
	Metadata map[string]string `msgpack:"meta,omitempty"`
	Warnings []Warning         `msgpack:"warnings,omitempty"`
	Children []*Node           `msgpack:"children,omitempty"`
}

// Snapshot flattens a plan tree into the wire envelope.
func Snapshot(n plan.Node) (*Node, error) {
	if n == nil {
		return nil, errors.AssertionFailedf("wire: nil plan node")
	}

	out := &Node{}
	h := n.Header()
	out.Pos = span(h)
	out.Wrapped = h.Wrapped
	if len(h.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(h.Metadata))
		for k, v := range h.Metadata {
			out.Metadata[k] = v
		}
	}
	for _, w := range h.Warnings {
		out.Warnings = append(out.Warnings, Warning{
			Key:    w.Key,
			Params: w.Params,
			Pos: Span{
				Start: Position{Line: w.Pos.Start.Line, Column: w.Pos.Start.Column},
				End:   Position{Line: w.Pos.End.Line, Column: w.Pos.End.Column},
			},
		})
	}

	var children []plan.Node
	switch n := n.(type) {
	case *plan.Relation:
		out.Kind, out.Name = KindRelation, n.Name
	case *plan.Selection:
		out.Kind = KindSelection
		out.Detail = plan.FormatExpr(n.Condition)
		children = []plan.Node{n.Input}
	case *plan.Projection:
		out.Kind = KindProjection
		out.Detail = oneLine(n)
		children = []plan.Node{n.Input}
	case *plan.OrderBy:
		out.Kind = KindOrderBy
		out.Detail = oneLine(n)
		children = []plan.Node{n.Input}
	case *plan.GroupBy:
		out.Kind = KindGroupBy
		out.Detail = oneLine(n)
		children = []plan.Node{n.Input}
	case *plan.RenameColumns:
		out.Kind = KindRenameColumns
		out.Detail = oneLine(n)
		children = []plan.Node{n.Input}
	case *plan.RenameRelation:
		out.Kind, out.Name = KindRenameRelation, n.Name
		children = []plan.Node{n.Input}
	case *plan.CrossJoin:
		out.Kind = KindCrossJoin
		children = []plan.Node{n.Left, n.Right}
	case *plan.InnerJoin:
		out.Kind = KindInnerJoin
		out.Detail = oneLine(n)
		children = []plan.Node{n.Left, n.Right}
	case *plan.LeftOuterJoin:
		out.Kind = KindLeftOuterJoin
		out.Detail = oneLine(n)
		children = []plan.Node{n.Left, n.Right}
	case *plan.RightOuterJoin:
		out.Kind = KindRightOuterJoin
		out.Detail = oneLine(n)
		children = []plan.Node{n.Left, n.Right}
	case *plan.FullOuterJoin:
		out.Kind = KindFullOuterJoin
		out.Detail = oneLine(n)
		children = []plan.Node{n.Left, n.Right}
	case *plan.SemiJoin:
		out.Kind = KindSemiJoin
		out.Detail = string(n.Side)
		children = []plan.Node{n.Left, n.Right}
	case *plan.AntiJoin:
		out.Kind = KindAntiJoin
		children = []plan.Node{n.Left, n.Right}
	case *plan.Union:
		out.Kind = KindUnion
		children = []plan.Node{n.Left, n.Right}
	case *plan.Intersect:
		out.Kind = KindIntersect
		children = []plan.Node{n.Left, n.Right}
	case *plan.Difference:
		out.Kind = KindDifference
		children = []plan.Node{n.Left, n.Right}
	case *plan.Division:
		out.Kind = KindDivision
		children = []plan.Node{n.Left, n.Right}
	default:
		return nil, errors.AssertionFailedf("wire: unhandled plan node %T", n)
	}

	for _, child := range children {
		snap, err := Snapshot(child)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, snap)
	}
	return out, nil
}

// Encode snapshots a plan tree and marshals it with MessagePack.
func Encode(n plan.Node) ([]byte, error) {
	snap, err := Snapshot(n)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(snap)
}

// Decode unmarshals a wire envelope.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func span(h *plan.NodeHeader) Span {
	return Span{
		Start: Position{Line: h.Pos.Start.Line, Column: h.Pos.Start.Column},
		End:   Position{Line: h.Pos.End.Line, Column: h.Pos.End.Column},
	}
}

// oneLine reuses the plan formatter for a node's own line, dropping the
// leading operator label and the rendered children.
func oneLine(n plan.Node) string {
	formatted, _, _ := strings.Cut(plan.Format(n), "\n")
	if _, detail, ok := strings.Cut(formatted, " "); ok {
		return detail
	}
	return ""
}
