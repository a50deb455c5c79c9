package binding

import (
	"probe/internal/ast"
	"probe/internal/scope"
	"probe/internal/source"
	"probe/internal/types"
)

// DescriptorKind classifies declaration descriptors.
type DescriptorKind uint8

const (
	DescInvalid DescriptorKind = iota
	DescClass
	DescObject
	DescAlias
	DescError
)

func (k DescriptorKind) String() string {
	switch k {
	case DescClass:
		return "class"
	case DescObject:
		return "object"
	case DescAlias:
		return "alias"
	case DescError:
		return "error"
	default:
		return "invalid"
	}
}

// Descriptor is the semantic record of a class-like declaration.
type Descriptor struct {
	Kind DescriptorKind
	Name source.StringID
	Decl ast.NodeID
	Type types.TypeID

	// MemberScope resolves member declarations: members only, no ctor params.
	MemberScope *scope.Scope
	// InitScope resolves initializers: ctor params layered over members.
	InitScope *scope.Scope

	// Local marks declarations nested inside a function body, reachable only
	// along specific control paths.
	Local bool
}

// ClassLike is a total classification over descriptor kinds: it accepts full
// class-like descriptors carrying both resolution scopes and rejects
// everything else (aliases, error descriptors, partial records). Callers
// treat false as "context unavailable".
func ClassLike(d *Descriptor) (*Descriptor, bool) {
	if d == nil {
		return nil, false
	}
	switch d.Kind {
	case DescClass, DescObject:
		if d.MemberScope != nil && d.InitScope != nil {
			return d, true
		}
		return nil, false
	case DescAlias, DescError, DescInvalid:
		return nil, false
	default:
		return nil, false
	}
}
