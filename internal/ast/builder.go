package ast

import (
	"probe/internal/source"
)

// Hints provide optional capacity suggestions for the node arena.
type Hints struct{ Nodes uint }

// Builder constructs program trees node by node, wiring parent links as
// children are attached.
type Builder struct {
	Nodes   *Nodes
	Strings *source.Interner
	Files   []NodeID
}

// NewBuilder builds a fresh builder with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewBuilder(h Hints, strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Nodes:   NewNodes(uint32(h.Nodes)),
		Strings: strings,
	}
}

// New allocates the node and adopts every referenced child.
func (b *Builder) New(node Node) NodeID {
	id := b.Nodes.New(node)
	for _, child := range node.Children {
		b.adopt(id, child)
	}
	b.adopt(id, node.TypeRef)
	b.adopt(id, node.Init)
	b.adopt(id, node.Body)
	b.adopt(id, node.Cond)
	b.adopt(id, node.Then)
	b.adopt(id, node.Else)
	b.adopt(id, node.Left)
	b.adopt(id, node.Right)
	return id
}

func (b *Builder) adopt(parent, child NodeID) {
	if !child.IsValid() {
		return
	}
	if node := b.Nodes.Get(child); node != nil {
		node.Parent = parent
	}
}

// File creates a file node and registers it as a root.
func (b *Builder) File(path string, items ...NodeID) NodeID {
	id := b.New(Node{Kind: KindFile, Name: b.Strings.Intern(path), Children: items})
	b.Files = append(b.Files, id)
	return id
}

// Import creates an import item from its directive text.
func (b *Builder) Import(directive string) NodeID {
	return b.New(Node{Kind: KindImport, Text: directive})
}

// Class creates a class declaration; members may start with a primary ctor.
func (b *Builder) Class(name string, members ...NodeID) NodeID {
	return b.New(Node{Kind: KindClassDecl, Name: b.Strings.Intern(name), Children: members})
}

// Object creates an object (singleton) declaration.
func (b *Builder) Object(name string, members ...NodeID) NodeID {
	return b.New(Node{Kind: KindObjectDecl, Name: b.Strings.Intern(name), Children: members})
}

// PrimaryCtor creates a primary constructor with the given params.
func (b *Builder) PrimaryCtor(params ...NodeID) NodeID {
	return b.New(Node{Kind: KindPrimaryCtor, Children: params})
}

// SecondaryCtor creates a secondary constructor. delegation and body may be
// NoNodeID.
func (b *Builder) SecondaryCtor(delegation, body NodeID, params ...NodeID) NodeID {
	return b.New(Node{Kind: KindSecondaryCtor, Init: delegation, Body: body, Children: params})
}

// Func creates a function declaration. ret is the return type reference and
// body the block; either may be NoNodeID.
func (b *Builder) Func(name string, ret, body NodeID, params ...NodeID) NodeID {
	return b.New(Node{Kind: KindFuncDecl, Name: b.Strings.Intern(name), TypeRef: ret, Body: body, Children: params})
}

// Property creates a val/var declaration. typeRef and init may be NoNodeID.
func (b *Builder) Property(name string, typeRef, init NodeID, flags NodeFlags) NodeID {
	return b.New(Node{Kind: KindProperty, Name: b.Strings.Intern(name), TypeRef: typeRef, Init: init, Flags: flags})
}

// Param creates a function or constructor parameter.
func (b *Builder) Param(name string, typeRef NodeID) NodeID {
	return b.New(Node{Kind: KindParam, Name: b.Strings.Intern(name), TypeRef: typeRef})
}

// Block creates a statement block.
func (b *Builder) Block(stmts ...NodeID) NodeID {
	return b.New(Node{Kind: KindBlock, Children: stmts})
}

// If creates a conditional; elseNode may be NoNodeID.
func (b *Builder) If(cond, then, elseNode NodeID) NodeID {
	return b.New(Node{Kind: KindIf, Cond: cond, Then: then, Else: elseNode})
}

// DelegationCall creates a this(...)/super(...) call of a secondary ctor.
func (b *Builder) DelegationCall(callee NodeID, args ...NodeID) NodeID {
	return b.New(Node{Kind: KindDelegationCall, Left: callee, Children: args})
}

// Name creates an identifier expression.
func (b *Builder) Name(name string) NodeID {
	return b.New(Node{Kind: KindNameExpr, Name: b.Strings.Intern(name)})
}

// Int creates an integer literal from its spelling.
func (b *Builder) Int(spelling string) NodeID {
	return b.New(Node{Kind: KindIntLit, Text: spelling})
}

// Str creates a string literal.
func (b *Builder) Str(value string) NodeID {
	return b.New(Node{Kind: KindStringLit, Text: value})
}

// Null creates the null literal.
func (b *Builder) Null() NodeID {
	return b.New(Node{Kind: KindNullLit})
}

// Binary creates a binary expression.
func (b *Builder) Binary(op BinOp, left, right NodeID) NodeID {
	return b.New(Node{Kind: KindBinaryExpr, Op: op, Left: left, Right: right})
}

// Call creates a call expression.
func (b *Builder) Call(callee NodeID, args ...NodeID) NodeID {
	return b.New(Node{Kind: KindCallExpr, Left: callee, Children: args})
}

// Lambda creates a lambda expression; body may be an empty block.
func (b *Builder) Lambda(body NodeID, params ...NodeID) NodeID {
	return b.New(Node{Kind: KindLambdaExpr, Body: body, Children: params})
}

// TypeRef creates a type reference with optional type arguments.
func (b *Builder) TypeRef(name string, flags NodeFlags, args ...NodeID) NodeID {
	return b.New(Node{Kind: KindTypeRef, Name: b.Strings.Intern(name), Flags: flags, Children: args})
}
