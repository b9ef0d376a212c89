package goavsc

// Package goavsc provides:
//
// - A parser for the Avro Schema Definition Language (.avsc JSON, or YAML)
//   that builds a fully resolved, cross-referenced schema tree
// - Dotted fullpaths for every node plus path lookup and traversal
// - Display helpers for tree and details views (TypeName, Label, Children, Search)
// - Parsing Canonical Form and fingerprints via hamba/avro
//
// Design policy:
// - Keep only public APIs in the root package; put helpers under internal/.
// - A parse owns its name registry; the returned tree is read-only and may be
//   shared across goroutines.
// - Named types are shared: every reference to a record, enum or fixed points
//   at the single instance registered under its full name.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  root, err := goavsc.ParseBytes(data)
//  n, err := goavsc.Lookup(root, "User.address.street")
//  goavsc.Traverse(root, func(n goavsc.Node) { fmt.Println(n.FullPath()) })
//
// Binary encoding and decoding of Avro data is out of scope.
