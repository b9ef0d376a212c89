package goavsc

import "iter"

// Traverse calls visit for every node reachable from root, including record
// fields, union members, array items and map values. Nodes are visited in
// pre-order; a named type referenced from several places (or from itself) is
// visited once.
func Traverse(root Node, visit func(Node)) {
	for n := range All(root) {
		visit(n)
	}
}

// All returns an iterator over the nodes Traverse visits, in the same order.
func All(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if root == nil {
			return
		}
		seen := make(map[Node]struct{})
		stack := []Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if !yield(n) {
				return
			}
			children := childNodes(n)
			// reversed so the first child is visited first
			for i := len(children) - 1; i >= 0; i-- {
				if children[i] != nil {
					stack = append(stack, children[i])
				}
			}
		}
	}
}

// childNodes lists the structural children of n.
func childNodes(n Node) []Node {
	switch s := n.(type) {
	case *Field:
		return []Node{s.Type}
	case *Record:
		out := make([]Node, len(s.Fields))
		for i, f := range s.Fields {
			out[i] = f
		}
		return out
	case *Union:
		out := make([]Node, len(s.Members))
		for i, m := range s.Members {
			out[i] = m
		}
		return out
	case *Array:
		return []Node{s.Items}
	case *Map:
		return []Node{s.Values}
	default:
		return nil
	}
}
