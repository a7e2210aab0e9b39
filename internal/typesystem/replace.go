package typesystem

// ReplaceTCon replaces all occurrences of TCon with the given name with the replacement type.
func ReplaceTCon(t Type, name string, replacement Type) Type {
	return Transform(t, func(c TCon) Type {
		if c.Name == name {
			return replacement
		}
		return c
	})
}

// BindGenericParams turns references to the given generic parameter names
// into TParam. Parsed type expressions only know identifiers; which of them
// are generic is decided by the enclosing declaration.
func BindGenericParams(t Type, names []string) Type {
	if len(names) == 0 {
		return t
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return Transform(t, func(c TCon) Type {
		if set[c.Name] && c.Module == "" {
			return TParam{Name: c.Name}
		}
		return c
	})
}

// Transform rebuilds t, replacing every TCon leaf with f(leaf).
func Transform(t Type, f func(TCon) Type) Type {
	if t == nil {
		return nil
	}
	switch typ := t.(type) {
	case TCon:
		return f(typ)
	case TMember:
		return TMember{Base: Transform(typ.Base, f), Name: typ.Name}
	case TMetatype:
		return TMetatype{Instance: Transform(typ.Instance, f)}
	case TTuple:
		newElements := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			newElements[i] = Transform(e, f)
		}
		return TTuple{Elements: newElements}
	case TComposition:
		newMembers := make([]Type, len(typ.Members))
		for i, m := range typ.Members {
			newMembers[i] = Transform(m, f)
		}
		return TComposition{Members: newMembers}
	case TFunc:
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = Transform(p, f)
		}
		return TFunc{
			Params:     newParams,
			ReturnType: Transform(typ.ReturnType, f),
			IsAsync:    typ.IsAsync,
			Throws:     typ.Throws,
		}
	case TArray:
		return TArray{Element: Transform(typ.Element, f)}
	case TOptional:
		return TOptional{Wrapped: Transform(typ.Wrapped, f)}
	default:
		return t
	}
}
