package types

// Mapping records type-variable bindings accumulated while matching an
// overload candidate. It is cheap to snapshot and roll back, which is
// what the checker's backtracking overload resolution (spec §4.3) needs:
// clone before each candidate, discard the clone on failure.
type Mapping struct {
	bindings map[string]*Type
}

// NewMapping returns an empty type-variable mapping.
func NewMapping() *Mapping {
	return &Mapping{bindings: map[string]*Type{}}
}

// Clone returns an independent copy of the mapping so a failed candidate
// match can be discarded without disturbing bindings made by a prior
// successful argument position.
func (m *Mapping) Clone() *Mapping {
	cp := make(map[string]*Type, len(m.bindings))
	for k, v := range m.bindings {
		cp[k] = v
	}
	return &Mapping{bindings: cp}
}

// Resolve follows the binding chain for a type variable, returning the
// bound type and true, or nil and false if unbound.
func (m *Mapping) Resolve(name string) (*Type, bool) {
	t, ok := m.bindings[name]
	return t, ok
}

func (m *Mapping) bind(name string, t *Type) {
	m.bindings[name] = t
}

// deref follows type_param bindings in m until reaching a non-type_param
// type or an unbound variable, which is returned as-is.
func deref(m *Mapping, t *Type) *Type {
	for t != nil && t.Kind() == KindTypeParam {
		bound, ok := m.Resolve(t.name)
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// occurs reports whether the type variable named `name` appears anywhere
// inside t (after resolving through m), guarding against cyclic
// substitutions such as binding T to list(T).
func occurs(m *Mapping, name string, t *Type) bool {
	t = deref(m, t)
	if t == nil {
		return false
	}
	if t.Kind() == KindTypeParam {
		return t.name == name
	}
	for _, p := range t.params {
		if occurs(m, name, p) {
			return true
		}
	}
	return false
}

// Assignable reports whether arg may be used where param is expected,
// recording any type-variable bindings made along the way into m. This
// implements the rule order in spec §4.3 "Assignability":
//  1. type-variable binding (either side) with occurs-check
//  2. protobuf wrapper unwrap
//  3. dyn/error wildcards
//  4. null into a nullable position (including a wrapper position)
//  5. enum (opaque, no params) into int
//  6. kind+arity match with pairwise recursive parameter checks
func Assignable(m *Mapping, param, arg *Type) bool {
	param = deref(m, param)
	arg = deref(m, arg)

	if param.Kind() == KindTypeParam {
		if bound, ok := m.Resolve(param.name); ok {
			return Assignable(m, bound, arg)
		}
		if occurs(m, param.name, arg) {
			return false
		}
		m.bind(param.name, arg)
		return true
	}
	if arg.Kind() == KindTypeParam {
		if bound, ok := m.Resolve(arg.name); ok {
			return Assignable(m, param, bound)
		}
		if occurs(m, arg.name, param) {
			return false
		}
		m.bind(arg.name, param)
		return true
	}

	paramIsWrapper := param.Kind() == KindStruct && WrapperPrimitive[param.name] != nil
	param = unwrapWrapper(param)
	arg = unwrapWrapper(arg)

	if param.Kind() == KindDyn || param.Kind() == KindError {
		return true
	}
	if arg.Kind() == KindDyn || arg.Kind() == KindError {
		return true
	}

	if arg.Kind() == KindNull && (param.IsNullable() || paramIsWrapper) {
		return true
	}

	if arg.IsEnum() && param.Kind() == KindInt {
		return true
	}

	if param.Kind() != arg.Kind() {
		return false
	}
	if len(param.params) != len(arg.params) {
		return false
	}
	switch param.Kind() {
	case KindStruct, KindOpaque, KindTypeParam:
		if param.name != arg.name {
			return false
		}
	}
	for i := range param.params {
		if !Assignable(m, param.params[i], arg.params[i]) {
			return false
		}
	}
	return true
}

// Substitute applies m's bindings to t recursively, returning a concrete
// type with every bound type_param replaced. Unbound type_params are left
// as-is.
func Substitute(m *Mapping, t *Type) *Type {
	if t == nil {
		return Dyn
	}
	resolved := deref(m, t)
	if len(resolved.params) == 0 {
		return resolved
	}
	newParams := make([]*Type, len(resolved.params))
	for i, p := range resolved.params {
		newParams[i] = Substitute(m, p)
	}
	return &Type{kind: resolved.kind, name: resolved.name, params: newParams}
}

// Join computes the conservative upper bound of a and b used for literal
// collection element types and ternary branch types (spec §4.3
// "joinTypes"): equal types join to themselves; dyn/error dominate; null
// joined with a nullable type yields the nullable; parametric types join
// element-wise when kinds and arity match; otherwise dyn.
func Join(a, b *Type) *Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Equal(b) {
		return a
	}
	if a.Kind() == KindDyn || b.Kind() == KindDyn {
		return Dyn
	}
	if a.Kind() == KindError || b.Kind() == KindError {
		return Error
	}
	if a.Kind() == KindNull && b.IsNullable() {
		return b
	}
	if b.Kind() == KindNull && a.IsNullable() {
		return a
	}
	if a.Kind() != b.Kind() {
		return Dyn
	}
	switch a.Kind() {
	case KindList:
		return NewList(Join(a.params[0], b.params[0]))
	case KindMap:
		return NewMap(Join(a.params[0], b.params[0]), Join(a.params[1], b.params[1]))
	case KindOpaque:
		if a.name != b.name || len(a.params) != len(b.params) {
			return Dyn
		}
		params := make([]*Type, len(a.params))
		for i := range a.params {
			params[i] = Join(a.params[i], b.params[i])
		}
		return newType(KindOpaque, a.name, params...)
	}
	return Dyn
}
