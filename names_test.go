package goavsc_test

import (
	"errors"
	"sort"
	"testing"

	goavsc "github.com/reoring/goavsc"
)

func TestFullname(t *testing.T) {
	cases := []struct {
		name, namespace, dflt, want string
	}{
		{"A", "ns", "def", "ns.A"},
		{"A", "", "def", "def.A"},
		{"A", "", "", "A"},
		{"x.A", "ns", "def", "x.A"},
		{"", "ns", "def", ""},
	}
	for _, tc := range cases {
		if got := goavsc.Fullname(tc.name, tc.namespace, tc.dflt); got != tc.want {
			t.Fatalf("Fullname(%q,%q,%q) = %q, want %q", tc.name, tc.namespace, tc.dflt, got, tc.want)
		}
	}
}

func TestNames_AddGetHas(t *testing.T) {
	n := goavsc.NewNames("com.acme")
	e := &goavsc.Enum{Symbols: []string{"A"}}
	full, err := n.Add("Color", "", e)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if full != "com.acme.Color" {
		t.Fatalf("full = %q", full)
	}
	if !n.Has("Color", "") || !n.Has("com.acme.Color", "other") || !n.Has("Color", "com.acme") {
		t.Fatalf("name should resolve")
	}
	if n.Has("Color", "other") {
		t.Fatalf("explicit namespace should take precedence over the default")
	}
	if got := n.Get("Color", ""); got != goavsc.Named(e) {
		t.Fatalf("Get must return the registered instance")
	}
	if n.Get("Missing", "") != nil {
		t.Fatalf("missing name should return nil")
	}

	_, err = n.Add("Color", "com.acme", &goavsc.Enum{})
	var dn *goavsc.DuplicateNameError
	if !errors.As(err, &dn) || dn.Reserved || dn.Fullname != "com.acme.Color" {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if !errors.Is(err, goavsc.ErrSchemaParse) {
		t.Fatalf("duplicate name error should match ErrSchemaParse")
	}
	if n.Len() != 1 {
		t.Fatalf("len = %d", n.Len())
	}
}

func TestNames_ReservedWords(t *testing.T) {
	n := goavsc.NewNames("")
	for _, w := range []string{"int", "record", "error_union", "map"} {
		_, err := n.Add(w, "", &goavsc.Record{})
		var dn *goavsc.DuplicateNameError
		if !errors.As(err, &dn) || !dn.Reserved {
			t.Fatalf("%s: expected reserved-name error, got %v", w, err)
		}
	}
	// Qualified names are not keywords.
	if _, err := goavsc.NewNames("ns").Add("int", "", &goavsc.Record{}); err != nil {
		t.Fatalf("ns.int should be accepted: %v", err)
	}
}

func TestNames_Fullnames(t *testing.T) {
	n := goavsc.NewNames("")
	for _, name := range []string{"b.B", "a.A"} {
		if _, err := n.Add(name, "", &goavsc.Fixed{}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	got := n.Fullnames()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a.A" || got[1] != "b.B" {
		t.Fatalf("fullnames = %v", got)
	}
}
