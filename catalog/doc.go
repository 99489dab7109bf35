// Package catalog discovers the tools of every registered backend and
// exposes them under collision-free global names.
//
// Discovery fans out one goroutine per enabled backend. Each opens its own
// session, lists the tools, compiles their input schemas and closes the
// session. A backend that fails is logged and skipped; the others still
// contribute. Once every goroutine has returned, names are assigned in
// registry order and the new tool set replaces the previous one as a whole.
//
// # Naming
//
// A tool "search" on backend "docs" is published as "docs__search". Names
// are lowercase, runs of characters other than letters, digits and "_"
// collapse to "_", and the result is cut to 64 characters. Clashes get a
// numeric suffix: "docs__search_2", "docs__search_3".
//
// # Usage
//
//	cat := catalog.New(registry, catalog.Options{Guide: router.DefaultGuide()})
//	tools, err := cat.Discover(ctx)
//	hits, _ := cat.Search("deploy integration flow", 5)
package catalog
