package goavsc

import "strings"

// AssignFullpaths computes the dotted fullpath of every node reachable from
// root, overwriting previous values. The result depends only on the tree's
// shape, so calling it again yields identical paths.
//
//   - a field appends its name to the parent path;
//   - the root record is anchored at its own name, nested records take the
//     path of the field that holds them;
//   - arrays and maps keep the parent path, a record item/value appends its name;
//   - a union keeps the parent path; its record members append their name only
//     when the union has more than one non-primitive member, and members whose
//     simple names collide use their full name instead;
//   - enums and fixeds append their name, primitives keep the parent path.
//
// A record that refers to itself (directly or through other records) is not
// re-entered, so its fields keep the paths of the outermost occurrence.
func AssignFullpaths(root Schema) {
	if root == nil {
		return
	}
	a := &assigner{active: make(map[*Record]struct{})}
	a.assign(root, "")
}

type assigner struct {
	// records on the current descent path
	active map[*Record]struct{}
}

func (a *assigner) assign(n Node, parent string) {
	switch s := n.(type) {
	case *Field:
		p := joinPath(parent, s.Name)
		s.setFullPath(p)
		a.assign(s.Type, p)
	case *Record:
		if _, ok := a.active[s]; ok {
			return
		}
		p := parent
		if p == "" {
			p = s.name
		}
		s.setFullPath(p)
		a.active[s] = struct{}{}
		for _, f := range s.Fields {
			a.assign(f, p)
		}
		delete(a.active, s)
	case *Array:
		s.setFullPath(parent)
		a.assign(s.Items, containedPath(parent, s.Items))
	case *Map:
		s.setFullPath(parent)
		a.assign(s.Values, containedPath(parent, s.Values))
	case *Union:
		s.setFullPath(parent)
		several := len(NonPrimitive(s.Members)) > 1
		segments := memberSegments(s.Members)
		for _, m := range s.Members {
			switch m.(type) {
			case *Record:
				if several {
					a.assign(m, joinPath(parent, segments[m]))
				} else {
					a.assign(m, parent)
				}
			case *Enum, *Fixed:
				m.setFullPath(joinPath(parent, segments[m]))
			default:
				a.assign(m, parent)
			}
		}
	case *Enum:
		s.setFullPath(joinPath(parent, s.name))
	case *Fixed:
		s.setFullPath(joinPath(parent, s.name))
	case *Primitive:
		s.setFullPath(parent)
	}
}

// memberSegments names the path segment of each named union member: the
// simple name, or the full name when another member shares the simple name.
func memberSegments(members []Schema) map[Schema]string {
	count := make(map[string]int, len(members))
	for _, m := range members {
		if n, ok := m.(Named); ok {
			count[n.Name()]++
		}
	}
	out := make(map[Schema]string, len(members))
	for _, m := range members {
		if n, ok := m.(Named); ok {
			if count[n.Name()] > 1 {
				out[m] = n.Fullname()
			} else {
				out[m] = n.Name()
			}
		}
	}
	return out
}

// containedPath is the path handed to an array item or map value schema.
func containedPath(parent string, s Schema) string {
	if r, ok := s.(*Record); ok {
		return joinPath(parent, r.name)
	}
	return parent
}

func joinPath(parent, name string) string {
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + "." + name
	}
}

// Lookup resolves a fullpath against the tree rooted at root. It returns
// (nil, nil) when nothing lives at that path, and a *MultipleMatchError when
// a record has several fields claiming the same path.
//
// When a field and the schema it holds share a path, the field is returned.
// A union with a single non-primitive member is looked through transparently.
func Lookup(root Node, fullpath string) (Node, error) {
	if root == nil {
		return nil, nil
	}
	return lookup(root, fullpath)
}

func lookup(n Node, target string) (Node, error) {
	if n.FullPath() == target {
		return n, nil
	}
	switch s := n.(type) {
	case *Record:
		prefix, ok := nextPrefix(s.FullPath(), target)
		if !ok {
			return nil, nil
		}
		var match *Field
		count := 0
		for _, f := range s.Fields {
			if f.FullPath() == prefix {
				match = f
				count++
			}
		}
		switch {
		case count == 0:
			return nil, nil
		case count > 1:
			return nil, &MultipleMatchError{Path: prefix, Matches: count}
		case match.FullPath() == target:
			return match, nil
		}
		return descend(match, match.Type, target)
	case *Field:
		return descend(s, s.Type, target)
	case *Array:
		return descend(s, s.Items, target)
	case *Map:
		return descend(s, s.Values, target)
	case *Union:
		members := NonPrimitive(s.Members)
		if len(members) == 1 {
			return descend(s, members[0], target)
		}
		for _, m := range members {
			found, err := descend(s, m, target)
			if err != nil || found != nil {
				return found, err
			}
		}
	}
	return nil, nil
}

// descend continues the lookup in child only when child's path extends the
// path of from; back-references to enclosing records end the search.
func descend(from, child Node, target string) (Node, error) {
	if child == nil || !extendsPath(child.FullPath(), from.FullPath()) {
		return nil, nil
	}
	return lookup(child, target)
}

func extendsPath(child, parent string) bool {
	return parent == "" || child == parent || strings.HasPrefix(child, parent+".")
}

// nextPrefix returns cur extended by the next segment of target.
func nextPrefix(cur, target string) (string, bool) {
	rest := target
	if cur != "" {
		if !strings.HasPrefix(target, cur+".") {
			return "", false
		}
		rest = target[len(cur)+1:]
	}
	seg, _, _ := strings.Cut(rest, ".")
	return joinPath(cur, seg), true
}
