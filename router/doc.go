// Package router maps free-text queries to a preferred backend and builds
// the guidance text handed to the reasoning engine.
//
// Routing is keyword based. Rules are checked in a fixed priority order and
// the first rule with a case-insensitive substring match wins, so a query
// that mentions both documentation and deployment goes to the
// documentation backend. Documentation requests are classified separately
// and additionally receive DocContract, the section layout every generated
// document must follow.
//
// A Router never changes after New returns and is safe for concurrent use.
//
//	r := router.Default()
//	d := r.Route("Please generate a template for SAP standard documentation")
//	d.Hint          // "documentation_mcp"
//	d.Documentation // true
//	prompt := query + d.Guidance
package router
