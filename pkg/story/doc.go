// Package story provides the branching-narrative graph container.
//
// A [Tree] owns every [Node] through an id-keyed registry, so a node can be
// referenced by any number of parents (converging paths, shared sub-trees)
// while still existing exactly once. Construction is total: SetRoot and Link
// materialize missing nodes on first reference, which lets callers declare
// edges in any order without a separate node-declaration pass.
//
// # Ownership
//
// The registry is the single owner of node lifetime. Root and children
// references are non-owning views into registry entries, so sharing a child
// between parents is always safe.
//
// # Determinism
//
// Map iteration order never leaks into output. [Tree.IDs] and
// [Tree.WriteListing] order ids numerically first (ascending by value),
// then lexicographically; see [SortIDs] for the exact rule.
//
// The container is not safe for concurrent mutation. The intended usage is
// build once, then read-only traversal and listing.
package story
