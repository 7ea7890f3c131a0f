package resolver

import "fmt"

// Kind distinguishes a resolved binding (a local slot reachable by walking up
// Depth enclosing function scopes) from an unresolved one (a name with no
// lexical declaration, looked up in the global table at run time). Per spec
// section 4.1, the resolver stops here: turning a Depth > 0 binding into an
// upvalue capture is the compiler's job (spec section 4.4), not the
// resolver's -- unlike the teacher, whose resolver itself classifies
// Local/Cell/Free/Predeclared/Universal.
type Kind uint8

const (
	Unresolved Kind = iota
	Resolved
)

func (k Kind) String() string {
	if k == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Binding is the resolver's verdict for one identifier reference.
type Binding struct {
	Kind Kind

	// Depth is the number of enclosing function scopes between the
	// reference and the function that declares it: 0 means the reference's
	// own function, 1 its immediate enclosing function, and so on. Only
	// meaningful when Kind == Resolved.
	Depth int

	// Slot is the declaration's index within its function's ordered local
	// list (parameters first, then declarations in source order). Only
	// meaningful when Kind == Resolved.
	Slot int

	// Name is kept for diagnostics and disassembly.
	Name string
}

func (b *Binding) String() string {
	if b.Kind == Unresolved {
		return fmt.Sprintf("global %s", b.Name)
	}
	return fmt.Sprintf("local %s depth=%d slot=%d", b.Name, b.Depth, b.Slot)
}

// Function records the per-function information the resolver gathers: the
// ordered list of local slots declared directly in that function (not
// counting slots of nested functions). The compiler uses Locals' length as
// the starting point for its register allocation.
type Function struct {
	// Name is the function's name for diagnostics, empty for anonymous
	// function literals.
	Name string
	// NumParams is the number of leading entries of Locals that are
	// parameters.
	NumParams int
	// Locals is the ordered list of local slot names declared in this
	// function, in declaration order; parameters occupy slots
	// [0, NumParams).
	Locals []string
	// Parent is the lexically enclosing function, nil for the chunk's
	// implicit top-level function.
	Parent *Function
}
