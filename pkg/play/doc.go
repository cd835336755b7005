// Package play implements interactive traversal of a story tree.
//
// The decision logic lives in [Session], an explicit state machine with two
// states: positioned at a node, or terminated. [Run] drives a Session from
// an abstract line source to an abstract text sink, which keeps the loop
// fully testable with scripted input and a byte buffer - no real console
// involved.
//
// Traversal never mutates the tree. Input mistakes (empty line, non-numeric
// text, out-of-range choice) are recoverable: the loop reports them and
// re-prompts at the same node. End of input is terminal but graceful. The
// only other way a session ends is reaching a childless node; if the graph
// routes back to an earlier node, revisiting it is legitimate behavior.
package play
