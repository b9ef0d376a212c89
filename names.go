package goavsc

import "strings"

// Names tracks the named types defined during a single parse. It is not safe
// for concurrent use and must not be reused across parses.
type Names struct {
	names map[string]Named
	// DefaultNamespace qualifies bare names when no explicit namespace is given.
	DefaultNamespace string
}

// NewNames returns an empty registry with the given default namespace.
func NewNames(defaultNamespace string) *Names {
	return &Names{names: make(map[string]Named), DefaultNamespace: defaultNamespace}
}

// Fullname resolves name against namespace, falling back to defaultNamespace.
// Names that already contain a dot are returned verbatim.
func Fullname(name, namespace, defaultNamespace string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, ".") {
		return name
	}
	if namespace != "" {
		return namespace + "." + name
	}
	if defaultNamespace != "" {
		return defaultNamespace + "." + name
	}
	return name
}

// namespaceOf returns the dotted prefix of a full name ("" when unqualified).
func namespaceOf(fullname string) string {
	if i := strings.LastIndexByte(fullname, '.'); i > 0 {
		return fullname[:i]
	}
	return ""
}

// simpleName returns the part of a full name after the last dot.
func simpleName(fullname string) string {
	if i := strings.LastIndexByte(fullname, '.'); i >= 0 {
		return fullname[i+1:]
	}
	return fullname
}

// Has reports whether name resolves to a registered type.
func (n *Names) Has(name, namespace string) bool {
	_, ok := n.names[Fullname(name, namespace, n.DefaultNamespace)]
	return ok
}

// Get returns the registered instance for name, or nil. The returned schema is
// shared with every other reference to it.
func (n *Names) Get(name, namespace string) Named {
	return n.names[Fullname(name, namespace, n.DefaultNamespace)]
}

// Add registers s and returns its full name.
func (n *Names) Add(name, namespace string, s Named) (string, error) {
	full := Fullname(name, namespace, n.DefaultNamespace)
	if isReservedTypeName(full) {
		return "", &DuplicateNameError{Fullname: full, Reserved: true}
	}
	if _, ok := n.names[full]; ok {
		return "", &DuplicateNameError{Fullname: full}
	}
	n.names[full] = s
	return full, nil
}

// Len returns the number of registered names.
func (n *Names) Len() int { return len(n.names) }

// Fullnames returns every registered full name in no particular order.
func (n *Names) Fullnames() []string {
	out := make([]string, 0, len(n.names))
	for k := range n.names {
		out = append(out, k)
	}
	return out
}

// withNamespace runs fn with DefaultNamespace set to ns and restores the
// previous value afterwards, including when fn fails.
func (n *Names) withNamespace(ns string, fn func() error) error {
	prev := n.DefaultNamespace
	n.DefaultNamespace = ns
	defer func() { n.DefaultNamespace = prev }()
	return fn()
}
