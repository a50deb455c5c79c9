package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"probe/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unit   TypeID
	Bool   TypeID
	Int    TypeID
	String TypeID
	Null   TypeID
	Error  TypeID
}

type typeKey struct {
	kind Kind
	elem TypeID
	name source.StringID
	args string
}

func keyOf(t Type) typeKey {
	k := typeKey{kind: t.Kind, elem: t.Elem, name: t.Name}
	if len(t.Args) > 0 {
		var sb strings.Builder
		for _, a := range t.Args {
			fmt.Fprintf(&sb, "%d,", a)
		}
		k.args = sb.String()
	}
	return k
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	strings  *source.Interner
}

// NewInterner constructs an interner seeded with built-in primitives.
// If strings is nil a fresh string interner is allocated.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		types:   make([]Type, 1), // index 0 reserved for NoTypeID
		index:   make(map[typeKey]TypeID, 32),
		strings: strings,
	}
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := keyOf(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type interner overflow: %w", err))
	}
	id := TypeID(value)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Get returns the descriptor for id, or nil for invalid IDs.
func (in *Interner) Get(id TypeID) *Type {
	if !id.IsValid() || int(id) >= len(in.types) {
		return nil
	}
	return &in.types[id]
}

// Optional wraps elem into its optional form. Optionals do not nest:
// wrapping an optional returns it unchanged.
func (in *Interner) Optional(elem TypeID) TypeID {
	if t := in.Get(elem); t != nil && t.Kind == KindOptional {
		return elem
	}
	return in.Intern(Type{Kind: KindOptional, Elem: elem})
}

// Unwrap returns the element of an optional type, or the type itself.
func (in *Interner) Unwrap(id TypeID) TypeID {
	if t := in.Get(id); t != nil && t.Kind == KindOptional {
		return t.Elem
	}
	return id
}

// IsOptional reports whether id is an optional type.
func (in *Interner) IsOptional(id TypeID) bool {
	t := in.Get(id)
	return t != nil && t.Kind == KindOptional
}

// Class interns a nominal class instance with the given type arguments.
func (in *Interner) Class(name source.StringID, args ...TypeID) TypeID {
	return in.Intern(Type{Kind: KindClass, Name: name, Args: args})
}

// Func interns a function type params -> result.
func (in *Interner) Func(result TypeID, params ...TypeID) TypeID {
	return in.Intern(Type{Kind: KindFunc, Elem: result, Args: params})
}

// String renders a readable form: "Int?", "List<String>", "(Int) -> Bool".
func (in *Interner) String(id TypeID) string {
	t := in.Get(id)
	if t == nil {
		return "<invalid>"
	}
	switch t.Kind {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindString:
		return "String"
	case KindNull:
		return "Null"
	case KindError:
		return "<error>"
	case KindOptional:
		return in.String(t.Elem) + "?"
	case KindClass:
		name, _ := in.strings.Lookup(t.Name)
		if len(t.Args) == 0 {
			return name
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = in.String(a)
		}
		return name + "<" + strings.Join(parts, ", ") + ">"
	case KindFunc:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = in.String(a)
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + in.String(t.Elem)
	default:
		return "<invalid>"
	}
}
