package ast

// Visitor is implemented by callers of Walk to traverse the AST. If Visit
// returns a non-nil Visitor w, Walk visits each child of n with w, then calls
// w.Visit(nil) when done with n's children.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the AST in depth-first order, calling v.Visit for n and
// each of its children.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	n.Walk(v)
	v.Visit(nil)
}

// inspector adapts a plain func to the Visitor interface.
type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the AST calling f for n and each of its children; f
// controls recursion by returning whether to continue into the node's
// children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
