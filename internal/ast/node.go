package ast

import (
	"probe/internal/source"
)

type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind tags the single node variant. Anchor refinement and context
// resolution dispatch over this tag with exhaustive switches.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindFile
	KindImport
	KindClassDecl
	KindObjectDecl
	KindPrimaryCtor
	KindSecondaryCtor
	KindFuncDecl
	KindProperty // class member or local val/var; Init holds initializer or delegate
	KindParam
	KindBlock
	KindIf
	KindDelegationCall
	KindNameExpr
	KindIntLit
	KindStringLit
	KindNullLit
	KindBinaryExpr
	KindCallExpr
	KindLambdaExpr
	KindTypeRef
)

func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindImport:
		return "import"
	case KindClassDecl:
		return "class"
	case KindObjectDecl:
		return "object"
	case KindPrimaryCtor:
		return "primary-ctor"
	case KindSecondaryCtor:
		return "secondary-ctor"
	case KindFuncDecl:
		return "func"
	case KindProperty:
		return "property"
	case KindParam:
		return "param"
	case KindBlock:
		return "block"
	case KindIf:
		return "if"
	case KindDelegationCall:
		return "delegation-call"
	case KindNameExpr:
		return "name"
	case KindIntLit:
		return "int-lit"
	case KindStringLit:
		return "string-lit"
	case KindNullLit:
		return "null-lit"
	case KindBinaryExpr:
		return "binary"
	case KindCallExpr:
		return "call"
	case KindLambdaExpr:
		return "lambda"
	case KindTypeRef:
		return "type-ref"
	default:
		return "invalid"
	}
}

// NodeFlags encode misc attributes for quick checks.
type NodeFlags uint8

const (
	FlagMutable   NodeFlags = 1 << iota // var rather than val
	FlagOptional                        // type reference written with '?'
	FlagDelegated                       // property Init is a delegate, not an initializer
)

// BinOp enumerates binary operators the resolver understands.
type BinOp uint8

const (
	OpInvalid BinOp = iota
	OpAdd
	OpSub
	OpEq
	OpNotEq
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	default:
		return "?"
	}
}

// Node is the single tagged variant. Field use per kind:
//
//	File           Children = top-level items (imports first)
//	Import         Text = directive ("import a.b.c" / "import a.b.*")
//	ClassDecl      Name; Children = primary ctor (if any) then members
//	ObjectDecl     Name; Children = members
//	PrimaryCtor    Children = params
//	SecondaryCtor  Children = params; Init = delegation call; Body = block
//	FuncDecl       Name; Children = params; Body = block
//	Property       Name; TypeRef; Init = initializer or delegate
//	Param          Name; TypeRef
//	Block          Children = statements
//	If             Cond; Then; Else (Else may be absent)
//	DelegationCall Left = callee expr; Children = args
//	NameExpr       Name
//	IntLit         Text = spelling
//	StringLit      Text = value
//	BinaryExpr     Op; Left; Right
//	CallExpr       Left = callee; Children = args
//	LambdaExpr     Children = params; Body = block
//	TypeRef        Name; Children = type arguments; FlagOptional for '?'
type Node struct {
	Kind     NodeKind
	Parent   NodeID
	Span     source.Span
	Name     source.StringID
	Flags    NodeFlags
	TypeRef  NodeID
	Init     NodeID
	Body     NodeID
	Cond     NodeID
	Then     NodeID
	Else     NodeID
	Left     NodeID
	Right    NodeID
	Op       BinOp
	Text     string
	Children []NodeID
}

// IsExpr reports whether the kind is an expression.
func (k NodeKind) IsExpr() bool {
	switch k {
	case KindNameExpr, KindIntLit, KindStringLit, KindNullLit,
		KindBinaryExpr, KindCallExpr, KindLambdaExpr, KindBlock, KindIf:
		return true
	}
	return false
}

// IsDecl reports whether the kind declares a named program element.
func (k NodeKind) IsDecl() bool {
	switch k {
	case KindClassDecl, KindObjectDecl, KindFuncDecl, KindProperty, KindParam,
		KindPrimaryCtor, KindSecondaryCtor:
		return true
	}
	return false
}

// IsProgramElement reports whether a node of this kind can serve as a
// resolution anchor on its own: declarations, statements and expressions
// qualify, auxiliary nodes (type refs, imports) do not.
func (k NodeKind) IsProgramElement() bool {
	if k.IsExpr() || k.IsDecl() {
		return true
	}
	switch k {
	case KindFile, KindDelegationCall:
		return true
	}
	return false
}
