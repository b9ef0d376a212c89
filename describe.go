package goavsc

import (
	"fmt"
	"strings"
)

// IsNullable reports whether any of schemas is the null primitive.
func IsNullable(schemas []Schema) bool {
	for _, s := range schemas {
		if p, ok := s.(*Primitive); ok && p.IsNull() {
			return true
		}
	}
	return false
}

// NonPrimitive filters out the primitive members of schemas, keeping order.
func NonPrimitive(schemas []Schema) []Schema {
	var out []Schema
	for _, s := range schemas {
		if _, ok := s.(*Primitive); !ok {
			out = append(out, s)
		}
	}
	return out
}

// TypeName describes a node's type for a details view, for example
// "Record (User)", "Array (string [ ])" or "Union { null, string }".
// A field is described by its type.
func TypeName(n Node) string {
	switch s := n.(type) {
	case *Field:
		return TypeName(s.Type)
	case *Primitive:
		return fmt.Sprintf("Primitive (%s)", ShortType(s))
	case *Array:
		return fmt.Sprintf("Array (%s)", ShortType(s))
	case *Map:
		return fmt.Sprintf("Map (%s)", ShortType(s))
	case *Record:
		return fmt.Sprintf("Record (%s)", ShortType(s))
	case *Fixed:
		return fmt.Sprintf("Fixed (%s - size: %d)", ShortType(s), s.Size)
	case *Enum:
		return "Enum"
	case *Union:
		parts := make([]string, len(s.Members))
		for i, m := range s.Members {
			parts[i] = ShortType(m)
		}
		label := "Union"
		if s.ErrorUnion {
			label = "Error Union"
		}
		return fmt.Sprintf("%s { %s }", label, strings.Join(parts, ", "))
	default:
		return ""
	}
}

// ShortType is the compact type notation used inside TypeName.
func ShortType(s Schema) string {
	switch t := s.(type) {
	case *Primitive:
		return t.PrimitiveType
	case *Fixed:
		return fmt.Sprintf("%s (%d)", TypeFixed, t.Size)
	case *Array:
		return ShortType(t.Items) + " [ ]"
	case *Map:
		return ShortType(t.Values) + " { }"
	case *Record:
		if t.name == "" {
			return t.RecordType
		}
		return t.name
	case *Enum:
		return t.name
	case *Union:
		return TypeUnion
	default:
		return ""
	}
}

// Label is the text shown for a node in a tree view. Fields get markers:
// "?" for a nullable union, " [ ]" for arrays, " { }" for maps and " *" when
// the field has no default (a value is required).
func Label(n Node) string {
	switch s := n.(type) {
	case *Field:
		var b strings.Builder
		b.WriteString(s.Name)
		switch t := s.Type.(type) {
		case *Union:
			if IsNullable(t.Members) {
				b.WriteString("?")
			}
		case *Array:
			b.WriteString(" [ ]")
		case *Map:
			b.WriteString(" { }")
		}
		if !s.HasDefault {
			b.WriteString(" *")
		}
		return b.String()
	case Named:
		if s.Name() != "" {
			return s.Name()
		}
	}
	return n.FullPath()
}

// Children lists the nodes a tree view shows below n: a record's fields, the
// non-primitive members of a union (or the children of its only one), and a
// record held by an array or map.
func Children(n Node) []Node {
	switch s := n.(type) {
	case *Field:
		return Children(s.Type)
	case *Record:
		out := make([]Node, len(s.Fields))
		for i, f := range s.Fields {
			out[i] = f
		}
		return out
	case *Union:
		members := NonPrimitive(s.Members)
		if len(members) == 1 {
			return Children(members[0])
		}
		out := make([]Node, len(members))
		for i, m := range members {
			out[i] = m
		}
		return out
	case *Array:
		if r, ok := s.Items.(*Record); ok {
			return []Node{r}
		}
	case *Map:
		if r, ok := s.Values.(*Record); ok {
			return []Node{r}
		}
	}
	return nil
}

// Search returns the unique fullpaths of named nodes (fields and named types)
// whose name contains query, case-insensitively, in traversal order.
func Search(root Node, query string) []string {
	q := strings.ToLower(query)
	var matches []string
	seen := make(map[string]struct{})
	Traverse(root, func(n Node) {
		name := nodeName(n)
		if name == "" || !strings.Contains(strings.ToLower(name), q) {
			return
		}
		if _, ok := seen[n.FullPath()]; ok {
			return
		}
		seen[n.FullPath()] = struct{}{}
		matches = append(matches, n.FullPath())
	})
	return matches
}

func nodeName(n Node) string {
	switch s := n.(type) {
	case *Field:
		return s.Name
	case Named:
		return s.Name()
	default:
		return ""
	}
}
