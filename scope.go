// scope.go — lexical environment chain.
//
// Frames link parent-ward only (never cyclic). Block bodies get a child
// frame that is discarded on exit; mutations of names declared in outer
// frames propagate because lookup walks the chain instead of copying.
// Lambdas capture the frame active at creation by reference.
package jyro

// binding is one variable slot: its current value and the declared type
// hint (HintNone for untyped variables).
type binding struct {
	val  Value
	hint TypeHint
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward.
type Env struct {
	parent *Env
	table  map[string]*binding
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: map[string]*binding{}}
}

// Define binds name in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value, hint TypeHint) {
	e.table[name] = &binding{val: v, hint: hint}
}

// lookup returns the nearest visible binding slot for name, or nil.
func (e *Env) lookup(name string) *binding {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.table[name]; ok {
			return b
		}
	}
	return nil
}

// Get retrieves the nearest visible value for name.
func (e *Env) Get(name string) (Value, bool) {
	if b := e.lookup(name); b != nil {
		return b.val, true
	}
	return Value{}, false
}

// definedHere reports whether name is bound in this exact frame (used to
// reject re-declaration in the same block).
func (e *Env) definedHere(name string) bool {
	_, ok := e.table[name]
	return ok
}
