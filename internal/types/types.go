package types

import (
	"probe/internal/source"
)

type TypeID uint32

const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind discriminates structural type descriptors.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindString
	KindNull // the type of the null literal
	KindError
	KindOptional // Elem is the wrapped type
	KindClass    // Name identifies the class, Args hold type arguments
	KindFunc     // Args are parameters, Elem is the result
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindError:
		return "error"
	case KindOptional:
		return "optional"
	case KindClass:
		return "class"
	case KindFunc:
		return "func"
	default:
		return "invalid"
	}
}

// Type is a structural descriptor hashed by the interner.
type Type struct {
	Kind Kind
	Elem TypeID          // optional element / func result
	Name source.StringID // class name
	Args []TypeID        // class type arguments / func parameters
}
