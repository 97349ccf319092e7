package asm

import (
	"iter"
)

// SymbolKind is the kind of a symbol.
type SymbolKind int

const (
	SYMBOL_LABEL = SymbolKind(iota) // A label declaration.
)

// Symbol is a named offset into one of the image segments.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Section SectionKind // Segment the offset is relative to.
	Offset  *uint32     // Nil until bound.
}

// SymbolTable maps names to symbols. Each name is declared once, and
// its offset is bound at most once.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
	}
}

// Len returns the number of declared symbols.
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Declare adds a new symbol.
func (st *SymbolTable) Declare(sym Symbol) (err error) {
	if st.symbols == nil {
		st.symbols = make(map[string]*Symbol)
	}

	_, ok := st.symbols[sym.Name]
	if ok {
		err = ErrSymbolAlreadyDeclared
		return
	}

	if sym.Offset != nil {
		offset := *sym.Offset
		sym.Offset = &offset
	}

	st.symbols[sym.Name] = &sym
	st.order = append(st.order, sym.Name)

	return
}

// SetOffset binds the offset of a declared symbol.
// Rebinding to the same offset is allowed.
func (st *SymbolTable) SetOffset(name string, offset uint32) (err error) {
	sym, ok := st.symbols[name]
	if !ok {
		err = ErrUndefinedSymbol(name)
		return
	}

	if sym.Offset != nil {
		if *sym.Offset != offset {
			err = ErrSymbolRebound
		}
		return
	}

	sym.Offset = &offset

	return
}

// Lookup returns a copy of the named symbol.
func (st *SymbolTable) Lookup(name string) (sym Symbol, ok bool) {
	found, ok := st.symbols[name]
	if ok {
		sym = *found
	}
	return
}

// Resolve returns the bound offset of a symbol.
func (st *SymbolTable) Resolve(name string) (offset uint32, err error) {
	sym, ok := st.symbols[name]
	if !ok || sym.Offset == nil {
		err = ErrUndefinedSymbol(name)
		return
	}

	offset = *sym.Offset

	return
}

// All returns an iterator over the symbols in declaration order.
func (st *SymbolTable) All() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, name := range st.order {
			if !yield(*st.symbols[name]) {
				return
			}
		}
	}
}
