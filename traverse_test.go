package goavsc_test

import (
	"reflect"
	"testing"

	goavsc "github.com/reoring/goavsc"
)

func kinds(nodes []goavsc.Node) []goavsc.NodeKind {
	out := make([]goavsc.NodeKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func TestTraverse_PreOrder(t *testing.T) {
	s := mustParse(t, `{"type":"record","name":"A","fields":[{"name":"x","type":"int"}]}`)
	var seen []goavsc.Node
	goavsc.Traverse(s, func(n goavsc.Node) { seen = append(seen, n) })
	want := []goavsc.NodeKind{goavsc.KindRecord, goavsc.KindField, goavsc.KindPrimitive}
	if got := kinds(seen); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if seen[1].(*goavsc.Field).Name != "x" {
		t.Fatalf("second node should be field x")
	}
}

func TestTraverse_SelfReferenceVisitedOnce(t *testing.T) {
	s := mustParse(t, `{"type":"record","name":"Node","fields":[
		{"name":"value","type":"int"},
		{"name":"next","type":["null","Node"]}
	]}`)
	count := 0
	records := 0
	goavsc.Traverse(s, func(n goavsc.Node) {
		count++
		if n.Kind() == goavsc.KindRecord {
			records++
		}
	})
	// Node, value, int, next, union, null
	if count != 6 || records != 1 {
		t.Fatalf("visited %d nodes (%d records), want 6 (1)", count, records)
	}
}

func TestAll_StopsEarly(t *testing.T) {
	rec := loadUser(t)
	n := 0
	for node := range goavsc.All(rec) {
		n++
		if node.Kind() == goavsc.KindField {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d nodes before break, want 2", n)
	}
}

func TestAll_Nil(t *testing.T) {
	for range goavsc.All(nil) {
		t.Fatalf("nil root should yield nothing")
	}
}
