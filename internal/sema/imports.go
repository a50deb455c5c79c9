package sema

import (
	"sort"
	"strings"

	"probe/internal/scope"
	"probe/internal/source"
	"probe/internal/types"
)

// ModuleSet is the registry import directives resolve against. Exports are
// registered up front (by embedders or tests); resolution never touches the
// file system.
type ModuleSet struct {
	strings *source.Interner
	modules map[string]map[string]scope.Binding
}

func NewModuleSet(strings *source.Interner) *ModuleSet {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &ModuleSet{
		strings: strings,
		modules: make(map[string]map[string]scope.Binding),
	}
}

// Export registers a named export of module path.
func (m *ModuleSet) Export(path, name string, b scope.Binding) {
	b.Name = m.strings.Intern(name)
	exports := m.modules[path]
	if exports == nil {
		exports = make(map[string]scope.Binding)
		m.modules[path] = exports
	}
	exports[name] = b
}

// ExportClass registers a class export with the given generic arity.
func (m *ModuleSet) ExportClass(path, name string, t types.TypeID, typeParams int) {
	m.Export(path, name, scope.Binding{Kind: scope.BindClass, Type: t, TypeParams: typeParams})
}

// ExportValue registers a value export.
func (m *ModuleSet) ExportValue(path, name string, t types.TypeID) {
	m.Export(path, name, scope.Binding{Kind: scope.BindValue, Type: t})
}

// ExportFunc registers a function export.
func (m *ModuleSet) ExportFunc(path, name string, t types.TypeID) {
	m.Export(path, name, scope.Binding{Kind: scope.BindFunc, Type: t})
}

// ResolveDirective resolves one textual import directive to the bindings it
// brings in. Malformed directives and unknown modules/members yield
// (nil, false); callers drop them silently per the degradation contract.
func (m *ModuleSet) ResolveDirective(text string) ([]scope.Binding, bool) {
	module, member, all, ok := parseDirective(text)
	if !ok {
		return nil, false
	}
	exports := m.modules[module]
	if exports == nil {
		return nil, false
	}
	if all {
		names := make([]string, 0, len(exports))
		for name := range exports {
			names = append(names, name)
		}
		sort.Strings(names)
		bindings := make([]scope.Binding, 0, len(names))
		for _, name := range names {
			bindings = append(bindings, exports[name])
		}
		return bindings, true
	}
	b, found := exports[member]
	if !found {
		return nil, false
	}
	return []scope.Binding{b}, true
}

// parseDirective splits "import a.b.c" into module "a.b" and member "c",
// and "import a.b.*" into module "a.b" with all=true.
func parseDirective(text string) (module, member string, all, ok bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || fields[0] != "import" {
		return "", "", false, false
	}
	segments := strings.Split(fields[1], ".")
	if len(segments) < 2 {
		return "", "", false, false
	}
	last := segments[len(segments)-1]
	prefix := segments[:len(segments)-1]
	for _, seg := range prefix {
		if !validSegment(seg) {
			return "", "", false, false
		}
	}
	if last == "*" {
		return strings.Join(prefix, "."), "", true, true
	}
	if !validSegment(last) {
		return "", "", false, false
	}
	return strings.Join(prefix, "."), last, false, true
}

func validSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i, r := range seg {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
