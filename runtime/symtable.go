package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a named binding, owned by a scope.
type Symbol struct {
	Name  string
	Value Value
}

// String is a debug Stringer for symbols.
func (s *Symbol) String() string {
	return fmt.Sprintf("<sym '%s'=%v>", s.Name, s.Value)
}

// === Scopes ================================================================

// Scope is a named scope, which may contain symbol definitions. Scopes link
// back to a parent scope, forming a chain. Symbols keep their order of
// definition.
type Scope struct {
	Name    string
	Parent  *Scope
	symbols *linkedhashmap.Map // string -> *Symbol
	max     int
}

// NewScope creates a new scope holding at most maxSymbols symbols
// (0 meaning the default limit).
func NewScope(nm string, parent *Scope, maxSymbols int) *Scope {
	if maxSymbols <= 0 {
		maxSymbols = DefaultLimits().MaxSymbols
	}
	return &Scope{
		Name:    nm,
		Parent:  parent,
		symbols: linkedhashmap.New(),
		max:     maxSymbols,
	}
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s>", s.Name)
}

// Define binds a value to a name in this scope. If the name is already
// defined here, its value is replaced and it keeps its position.
func (s *Scope) Define(name string, v Value) error {
	if sym, ok := s.Lookup(name); ok {
		sym.Value = v
		return nil
	}
	if s.symbols.Size() >= s.max {
		return &OverflowError{What: "symbols", Limit: s.max}
	}
	s.symbols.Put(name, &Symbol{Name: name, Value: v})
	tracer().P("scope", s.Name).Debugf("defined '%s'", name)
	return nil
}

// Lookup finds a symbol in this scope only.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols.Get(name)
	if !ok {
		return nil, false
	}
	return sym.(*Symbol), true
}

// Assign re-binds an existing symbol of this scope. It returns false if name
// is not defined here.
func (s *Scope) Assign(name string, v Value) bool {
	sym, ok := s.Lookup(name)
	if ok {
		sym.Value = v
	}
	return ok
}

// Resolve finds a symbol, searching this scope and then its parents. Returns
// the symbol (or nil) and the scope the symbol was found in.
func (s *Scope) Resolve(name string) (*Symbol, *Scope) {
	for ; s != nil; s = s.Parent {
		if sym, ok := s.Lookup(name); ok {
			return sym, s
		}
	}
	return nil, nil
}

// Names returns the names defined in this scope, in order of definition.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.symbols.Size())
	it := s.symbols.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}
	return names
}

// Len counts the symbols of this scope.
func (s *Scope) Len() int {
	return s.symbols.Size()
}

// Each iterates over the symbols in order of definition.
func (s *Scope) Each(mapper func(*Symbol)) {
	it := s.symbols.Iterator()
	for it.Next() {
		mapper(it.Value().(*Symbol))
	}
}
