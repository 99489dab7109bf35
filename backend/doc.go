// Package backend provides the tool server abstraction and registry.
//
// A Backend is one MCP tool server. It holds read-only transport settings
// and acts as a session factory: every discovery call, connect probe and
// invocation attempt opens its own Session and closes it afterwards.
// Sessions are never shared between concurrent callers.
//
//   - Backend interface for tool servers (remote HTTP, in-process)
//   - Session wrapping an MCP client connection
//   - Registry holding backends in registration order
//
// # Registry
//
//	registry := backend.NewRegistry()
//	registry.Register(remoteBackend)
//	registry.Register(localBackend)
//
//	// probe all enabled backends concurrently
//	for name, err := range registry.Connect(ctx) {
//	    fmt.Printf("%s: %v\n", name, err)
//	}
//
// Implementations live in the remote and local subpackages.
package backend
