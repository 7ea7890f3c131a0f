package compiler

// ConstKind discriminates the handful of literal kinds the compiler can fold
// into a Prototype's constant pool. The compiler intentionally has no
// dependency on lang/types (mirroring the teacher, whose compiler package is
// likewise value-model agnostic): richer runtime values (strings become
// types.String, etc.) are materialized by the machine when it loads a
// Prototype, not by the compiler.
type ConstKind uint8

const (
	ConstNull ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
)

// Const is one entry of a Prototype's constant pool. It is a plain
// comparable struct so the compiler can dedup constants with a Go map.
type Const struct {
	Kind  ConstKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// UpvalDesc says how a closure captures one of its upvalues at the moment
// the enclosing function executes its OpClosure: either directly from a
// live register of the enclosing function (FromParentLocal), or by sharing
// an upvalue cell the enclosing function itself already holds
// (FromParentLocal == false), per spec section 4.4's upvalue resolution.
type UpvalDesc struct {
	FromParentLocal bool
	Index           uint8
	// Name is carried for disassembly and stack traces only.
	Name string
}

// Prototype is the compiled, immutable template for a function: its code,
// constant pool, nested function templates and upvalue capture
// descriptors. A Prototype is shared by every Closure created from it;
// per-call state (registers, upvalue cells) lives in the machine's Frame.
type Prototype struct {
	Name      string
	NumParams int
	IsAsync   bool
	// MaxStack is the number of registers this function's frame needs,
	// computed by the compiler's register allocator.
	MaxStack int

	Code  []Instr
	Lines []int32 // Lines[pc] is the source line of Code[pc]

	Constants  []Const
	Prototypes []*Prototype
	Upvalues   []UpvalDesc
}

// Module is the root of a compiled compilation unit: its top-level
// Prototype (an implicit zero-argument function running the chunk's
// statements) plus the chunk's display name.
type Module struct {
	Name string
	Main *Prototype
}
