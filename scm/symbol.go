package scm

// Symbol represents Scheme's symbol.
// Symbols are compared by identity; see SymbolTable.
type Symbol string

func (sym *Symbol) String() string {
	return string(*sym)
}

// SymbolTable maps names to interned symbols.
// Two symbols interned in the same table with the same name are the
// same *Symbol.  The table only grows.
type SymbolTable struct {
	m map[string]*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{m: make(map[string]*Symbol)}
}

// Intern interns a name as a symbol.
func (t *SymbolTable) Intern(name string) *Symbol {
	if sym, ok := t.m[name]; ok {
		return sym
	}
	sym := Symbol(name)
	t.m[name] = &sym
	return &sym
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int {
	return len(t.m)
}

// keywords holds the symbols the evaluator dispatches on.
type keywords struct {
	quote, define, setq, ifs, lambda, begin *Symbol
	cond, elses, let, and, or, ok           *Symbol
}

func newKeywords(t *SymbolTable) keywords {
	return keywords{
		quote:  t.Intern("quote"),
		define: t.Intern("define"),
		setq:   t.Intern("set!"),
		ifs:    t.Intern("if"),
		lambda: t.Intern("lambda"),
		begin:  t.Intern("begin"),
		cond:   t.Intern("cond"),
		elses:  t.Intern("else"),
		let:    t.Intern("let"),
		and:    t.Intern("and"),
		or:     t.Intern("or"),
		ok:     t.Intern("ok"),
	}
}
