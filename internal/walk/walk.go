// Package walk implements a depth-first traversal over any tree shape using
// an explicit work stack, so traversal depth is bounded by heap memory rather
// than the goroutine stack.
package walk

// Result controls how a walk proceeds after a node has been visited.
type Result int

const (
	// Continue descends into the node's children.
	Continue Result = iota
	// Skip does not descend into the node's children. The exit visit for
	// the node still happens.
	Skip
	// Stop ends the walk immediately.
	Stop
)

// Visitor is called once with entering set before a node's children are
// visited and once with entering cleared after them. The result of an exit
// visit is only inspected for Stop.
type Visitor[N any] func(n N, entering bool) Result

type frame[N any] struct {
	node     N
	entering bool
}

// Walk visits root and its descendants in document order. children returns
// the ordered child list of a node. Walk reports Stop when the visitor ended
// the walk early and Continue otherwise.
func Walk[N any](root N, children func(N) []N, visit Visitor[N]) Result {
	stack := []frame[N]{{node: root, entering: true}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r := visit(f.node, f.entering)
		if r == Stop {
			return Stop
		}
		if !f.entering {
			continue
		}
		stack = append(stack, frame[N]{node: f.node})
		if r == Skip {
			continue
		}
		kids := children(f.node)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame[N]{node: kids[i], entering: true})
		}
	}
	return Continue
}

// Each visits every node of the tree in pre-order.
func Each[N any](root N, children func(N) []N, fn func(N)) {
	Walk(root, children, func(n N, entering bool) Result {
		if entering {
			fn(n)
		}
		return Continue
	})
}

// Filter rebuilds the child lists of every node, keeping only the children
// for which keep reports true. Removed children are not descended into.
// set stores the new child list on its parent.
func Filter[N any](root N, children func(N) []N, set func(N, []N), keep func(N) bool) {
	Walk(root, children, func(n N, entering bool) Result {
		if !entering {
			return Continue
		}
		kids := children(n)
		kept := kids[:0:0]
		for _, k := range kids {
			if keep(k) {
				kept = append(kept, k)
			}
		}
		if len(kept) != len(kids) {
			set(n, kept)
		}
		return Continue
	})
}
