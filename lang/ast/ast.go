// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver and compiler. Lexing and parsing are external
// collaborators to the compiler/VM core (spec section 1); this package is
// the fixed interface between them.
package ast

import (
	"fmt"
	"strings"

	"github.com/hemlang/hemlock/lang/token"
)

// Node is implemented by every AST node.
type Node interface {
	fmt.Stringer
	// Span reports the start position of the node.
	Span() token.Pos
	// Walk enters each child node, in evaluation order.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
	// IsLoop reports whether this statement introduces a loop scope that
	// break/continue attach to. Only while/for/for-in statements return
	// true.
	IsLoop() bool
}

// Block is a sequence of statements delimited by braces (or the implicit
// outermost block of a chunk).
type Block struct {
	Start token.Pos
	Stmts []Stmt
}

func (b *Block) String() string { return fmt.Sprintf("block{%d stmts}", len(b.Stmts)) }
func (b *Block) Span() token.Pos { return b.Start }
func (b *Block) Walk(v Visitor) {
	for _, s := range b.Stmts {
		Walk(v, s)
	}
}

// Chunk is the root of a compilation unit: a top-level block plus its
// filename, used for line-table and error reporting purposes.
type Chunk struct {
	Name  string
	Block *Block
}

func (c *Chunk) String() string { return "chunk " + c.Name }
func (c *Chunk) Span() token.Pos {
	if c.Block != nil {
		return c.Block.Span()
	}
	return 0
}
func (c *Chunk) Walk(v Visitor) {
	if c.Block != nil {
		Walk(v, c.Block)
	}
}

func joinStrings(ns []Expr) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
