// Package compctx carries the per-compilation mutable state (fresh label
// and temporary counters, the global string-literal table) threaded through
// checking, lowering, and code generation. One Context is created per call
// to compiler.Compile; nothing here is package-level or shared across
// compilations.
package compctx

import "fmt"

// StrLit is one string literal occurrence recorded by InternString, in
// encounter order, carrying the data-section label minted for it.
type StrLit struct {
	Value string
	Label string
}

// Context is passed by pointer through every compiler stage that needs
// fresh names or records a string literal for later emission.
type Context struct {
	labelID int
	tempID  int
	strLits []StrLit
}

// New returns a fresh, empty Context.
func New() *Context {
	return &Context{}
}

// NewLabel returns a fresh control-flow label, distinct from every label
// returned so far in this Context.
func (c *Context) NewLabel() string {
	c.labelID++
	return fmt.Sprintf("Label%d", c.labelID)
}

// NewTemp returns a fresh IR3 temporary name, distinct from every temporary
// returned so far in this Context.
func (c *Context) NewTemp() string {
	c.tempID++
	return fmt.Sprintf("_t%d", c.tempID)
}

// InternString records one occurrence of a string literal and returns its
// data-section label. The table is global to the whole compilation and
// never deduplicates by content: two methods printing the identical
// literal text still each get their own label, in source-appearance
// order, because each call here corresponds to one NStringLit node
// visited during static checking, not one distinct value.
func (c *Context) InternString(s string) string {
	lbl := fmt.Sprintf("L%d", len(c.strLits)+1)
	c.strLits = append(c.strLits, StrLit{Value: s, Label: lbl})
	return lbl
}

// StringLiterals returns every interned string-literal occurrence, in
// encounter order, paired with its assigned data-section label.
func (c *Context) StringLiterals() []StrLit {
	return c.strLits
}
