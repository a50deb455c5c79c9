package sema

import (
	"fmt"

	"probe/internal/ast"
	"probe/internal/binding"
	"probe/internal/cache"
	"probe/internal/diag"
	"probe/internal/flow"
	"probe/internal/scope"
	"probe/internal/source"
	"probe/internal/types"
)

// analyzer carries one resolution walk. rec receives the facts; for the
// whole-program pass it is the shared context, for cached element lookups a
// fresh one, for fragments the overlay.
type analyzer struct {
	p        *Program
	rec      binding.Recorder
	reporter diag.Reporter
	facts    flow.Facts
}

func (a *analyzer) report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	if a.reporter == nil {
		return
	}
	a.reporter.Report(code, sev, span, msg, nil)
}

func (a *analyzer) nodes() *ast.Nodes { return a.p.builder.Nodes }

func (a *analyzer) nameOf(id source.StringID) string {
	s, _ := a.p.builder.Strings.Lookup(id)
	return s
}

// buildFileScope creates the per-file top-level layer: resolved imports plus
// class/object names. Function signatures and top-level properties bind
// later in walkFile, once all classes are known.
func (a *analyzer) buildFileScope(file ast.NodeID) *scope.Scope {
	sc := scope.New(scope.LayerFile, a.p.pkgScope)
	node := a.nodes().Get(file)
	if node == nil {
		return sc
	}
	for _, item := range node.Children {
		child := a.nodes().Get(item)
		if child == nil {
			continue
		}
		switch child.Kind {
		case ast.KindImport:
			// Unresolvable directives are dropped; the file scope simply
			// lacks those names.
			if bindings, ok := a.p.modules.ResolveDirective(child.Text); ok {
				for _, b := range bindings {
					sc.Bind(b)
				}
			}
		case ast.KindClassDecl, ast.KindObjectDecl:
			sc.Bind(scope.Binding{
				Name: child.Name,
				Kind: scope.BindClass,
				Node: item,
				Type: a.p.types.Class(child.Name),
			})
		}
	}
	return sc
}

// declareClasses builds descriptors for every top-level class in the file.
func (a *analyzer) declareClasses(file ast.NodeID) {
	sc := a.p.fileScopes[file]
	node := a.nodes().Get(file)
	if node == nil || sc == nil {
		return
	}
	for _, item := range node.Children {
		switch a.nodes().Kind(item) {
		case ast.KindClassDecl, ast.KindObjectDecl:
			a.buildDescriptor(sc, item, false)
		}
	}
}

// buildDescriptor computes a class-like descriptor: a member scope without
// ctor params and an init scope layering the primary ctor params above it.
func (a *analyzer) buildDescriptor(outer *scope.Scope, decl ast.NodeID, local bool) *binding.Descriptor {
	node := a.nodes().Get(decl)
	if node == nil {
		return nil
	}
	kind := binding.DescClass
	if node.Kind == ast.KindObjectDecl {
		kind = binding.DescObject
	}
	classType := a.p.types.Class(node.Name)

	memberScope := scope.New(scope.LayerMember, outer)
	var primary ast.NodeID
	for _, member := range node.Children {
		m := a.nodes().Get(member)
		if m == nil {
			continue
		}
		switch m.Kind {
		case ast.KindPrimaryCtor:
			primary = member
		case ast.KindProperty:
			t := a.propertyType(memberScope, member)
			memberScope.Bind(scope.Binding{Name: m.Name, Kind: scope.BindValue, Node: member, Type: t})
		case ast.KindFuncDecl:
			memberScope.Bind(scope.Binding{Name: m.Name, Kind: scope.BindFunc, Node: member, Type: a.funcType(memberScope, member)})
		}
	}

	initScope := scope.New(scope.LayerMember, memberScope)
	if primary.IsValid() {
		a.bindParams(initScope, memberScope, primary)
	}

	desc := &binding.Descriptor{
		Kind:        kind,
		Name:        node.Name,
		Decl:        decl,
		Type:        classType,
		MemberScope: memberScope,
		InitScope:   initScope,
		Local:       local,
	}
	a.rec.RecordDescriptor(decl, desc)
	a.rec.RecordType(decl, classType)
	return desc
}

// propertyType resolves the declared type, falling back to the initializer.
// The result is recorded on the property node.
func (a *analyzer) propertyType(sc *scope.Scope, prop ast.NodeID) types.TypeID {
	node := a.nodes().Get(prop)
	if node == nil {
		return a.p.types.Builtins().Error
	}
	var t types.TypeID
	if node.TypeRef.IsValid() {
		t = a.resolveTypeRef(sc, node.TypeRef, false)
	} else if node.Init.IsValid() {
		t = a.inferExpr(sc, node.Init, types.NoTypeID, false)
	} else {
		t = a.p.types.Builtins().Error
	}
	a.rec.RecordType(prop, t)
	return t
}

// funcType resolves a function signature to its structural type.
func (a *analyzer) funcType(sc *scope.Scope, fn ast.NodeID) types.TypeID {
	node := a.nodes().Get(fn)
	if node == nil {
		return a.p.types.Builtins().Error
	}
	params := make([]types.TypeID, 0, len(node.Children))
	for _, param := range node.Children {
		p := a.nodes().Get(param)
		if p == nil {
			continue
		}
		var t types.TypeID
		if p.TypeRef.IsValid() {
			t = a.resolveTypeRef(sc, p.TypeRef, false)
		} else {
			t = a.p.types.Builtins().Error
		}
		a.rec.RecordType(param, t)
		params = append(params, t)
	}
	ret := a.p.types.Builtins().Unit
	if node.TypeRef.IsValid() {
		ret = a.resolveTypeRef(sc, node.TypeRef, false)
	}
	t := a.p.types.Func(ret, params...)
	a.rec.RecordType(fn, t)
	return t
}

// bindParams resolves and binds ctor/function params into target. Types are
// resolved against resolutionScope.
func (a *analyzer) bindParams(target, resolutionScope *scope.Scope, owner ast.NodeID) {
	node := a.nodes().Get(owner)
	if node == nil {
		return
	}
	for _, param := range node.Children {
		p := a.nodes().Get(param)
		if p == nil || p.Kind != ast.KindParam {
			continue
		}
		var t types.TypeID
		if p.TypeRef.IsValid() {
			t = a.resolveTypeRef(resolutionScope, p.TypeRef, false)
		} else {
			t = a.p.types.Builtins().Error
		}
		a.rec.RecordType(param, t)
		target.Bind(scope.Binding{Name: p.Name, Kind: scope.BindValue, Node: param, Type: t})
	}
}

// walkFile binds top-level signatures, then walks every body.
func (a *analyzer) walkFile(file ast.NodeID) {
	sc := a.p.fileScopes[file]
	node := a.nodes().Get(file)
	if node == nil || sc == nil {
		return
	}
	for _, item := range node.Children {
		child := a.nodes().Get(item)
		if child == nil {
			continue
		}
		switch child.Kind {
		case ast.KindFuncDecl:
			sc.Bind(scope.Binding{Name: child.Name, Kind: scope.BindFunc, Node: item, Type: a.funcType(sc, item)})
		case ast.KindProperty:
			t := a.propertyType(sc, item)
			sc.Bind(scope.Binding{Name: child.Name, Kind: scope.BindValue, Node: item, Type: t})
		}
	}
	for _, item := range node.Children {
		switch a.nodes().Kind(item) {
		case ast.KindFuncDecl:
			a.walkFuncBody(sc, item)
		case ast.KindClassDecl, ast.KindObjectDecl:
			a.walkClassBodies(item)
		}
	}
}

// walkFuncBody types a function body. Self-sufficient: params are resolved
// again so cached element lookups can replay it against a fresh context.
func (a *analyzer) walkFuncBody(outer *scope.Scope, fn ast.NodeID) {
	node := a.nodes().Get(fn)
	if node == nil || !node.Body.IsValid() {
		return
	}
	paramScope := scope.New(scope.LayerLocal, outer)
	a.bindParams(paramScope, outer, fn)
	a.rec.RecordScope(fn, paramScope)
	a.inferExpr(paramScope, node.Body, types.NoTypeID, true)
}

// walkClassBodies types member bodies of a class with a known descriptor.
func (a *analyzer) walkClassBodies(decl ast.NodeID) {
	desc := a.descriptorFor(decl)
	if desc == nil {
		return
	}
	node := a.nodes().Get(decl)
	if node == nil {
		return
	}
	for _, member := range node.Children {
		m := a.nodes().Get(member)
		if m == nil {
			continue
		}
		switch m.Kind {
		case ast.KindProperty:
			if m.Init.IsValid() {
				declared, _ := a.typeOf(member)
				got := a.inferExpr(desc.InitScope, m.Init, declared, false)
				a.checkAssignable(declared, got, m.Span)
			}
		case ast.KindFuncDecl:
			a.walkFuncBody(desc.MemberScope, member)
		case ast.KindSecondaryCtor:
			a.walkSecondaryCtor(desc, member)
		}
	}
}

// walkSecondaryCtor types a secondary constructor: ctor params over the
// member scope, then the delegation call and the body.
func (a *analyzer) walkSecondaryCtor(desc *binding.Descriptor, ctor ast.NodeID) {
	node := a.nodes().Get(ctor)
	if node == nil {
		return
	}
	paramScope := scope.New(scope.LayerLocal, desc.MemberScope)
	a.bindParams(paramScope, desc.MemberScope, ctor)
	a.rec.RecordScope(ctor, paramScope)
	if node.Init.IsValid() {
		a.inferExpr(paramScope, node.Init, types.NoTypeID, true)
	}
	if node.Body.IsValid() {
		a.inferExpr(paramScope, node.Body, types.NoTypeID, true)
	}
}

// descriptorFor finds a descriptor recorded either by this walk or by the
// whole-program pass.
func (a *analyzer) descriptorFor(decl ast.NodeID) *binding.Descriptor {
	if rec, ok := a.rec.(binding.Reader); ok {
		if d, found := rec.DescriptorOf(decl); found {
			return d
		}
	}
	d, _ := a.p.ctx.DescriptorOf(decl)
	return d
}

// typeOf reads a node type recorded by this walk, falling back to the
// whole-program context.
func (a *analyzer) typeOf(id ast.NodeID) (types.TypeID, bool) {
	if rec, ok := a.rec.(binding.Reader); ok {
		if t, found := rec.TypeOf(id); found {
			return t, true
		}
	}
	return a.p.ctx.TypeOf(id)
}

func (a *analyzer) checkAssignable(declared, got types.TypeID, span source.Span) {
	if !declared.IsValid() || !got.IsValid() {
		return
	}
	if a.assignable(declared, got) {
		return
	}
	a.report(diag.TypeMismatch, diag.SevError, span,
		fmt.Sprintf("cannot assign %s to %s", a.p.types.String(got), a.p.types.String(declared)))
}

func (a *analyzer) assignable(declared, got types.TypeID) bool {
	bt := a.p.types.Builtins()
	if declared == got || declared == bt.Error || got == bt.Error {
		return true
	}
	if a.p.types.IsOptional(declared) {
		if got == bt.Null {
			return true
		}
		return a.assignable(a.p.types.Unwrap(declared), got)
	}
	return false
}

// resolveElement is the compute path behind the resolution cache: replay the
// enclosing top-level declaration of element into a.rec.
func (a *analyzer) resolveElement(element ast.NodeID, mode cache.DepthMode) {
	nodes := a.nodes()
	top := element
	var file ast.NodeID
	for cur := nodes.Parent(element); cur.IsValid(); cur = nodes.Parent(cur) {
		if nodes.Kind(cur) == ast.KindFile {
			file = cur
			break
		}
		top = cur
	}
	sc := a.p.fileScopes[file]
	if sc == nil {
		// Detached element: resolve against the package prelude alone.
		sc = scope.New(scope.LayerFile, a.p.pkgScope)
	}

	if mode == cache.DepthShallow {
		switch nodes.Kind(element) {
		case ast.KindClassDecl, ast.KindObjectDecl:
			a.buildDescriptor(sc, element, nodes.IsLocal(element))
		}
		a.rec.RecordScope(element, sc)
		return
	}

	switch nodes.Kind(top) {
	case ast.KindFuncDecl:
		a.walkFuncBody(sc, top)
	case ast.KindClassDecl, ast.KindObjectDecl:
		a.buildDescriptor(sc, top, false)
		a.walkClassBodies(top)
	case ast.KindProperty:
		a.propertyType(sc, top)
	default:
		a.rec.RecordScope(element, sc)
	}
}
