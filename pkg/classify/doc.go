// Package classify routes the exported variables of a route module into
// execution-context buckets and rewrites them for downstream code generation.
//
// # Buckets
//
// Every identifier declared by a top-level `export const|let|var` lands in
// exactly one bucket, decided by a fixed naming convention:
//
//   - Client: client_load. The "client_" prefix is stripped.
//   - PageServer: server_load, actions. The "server_" prefix is stripped.
//   - Server: GET, POST, PUT, PATCH, DELETE, and every other name.
//
// # Rewriting
//
// Each classified declarator keeps its type annotation, but its initializer
// is replaced by a numeric placeholder: the byte offset just past the
// original initializer. Downstream tooling uses it to locate the original
// body in the source.
//
//	export const server_load = async () => {}
//
// becomes, after Classify and emit.Module,
//
//	export const load = 41;
//
// Classify is pure. It never mutates its input and returns a new module.
// Applying it to its own output is not idempotent because names have
// already lost their prefixes.
package classify
