// Package pkg provides the core libraries for Fabula interactive stories.
//
// # Overview
//
// Fabula loads branching stories, plays them interactively, and renders
// their structure. The pkg directory is organized by concern:
//
//  1. [story] - The story graph: nodes, links, deterministic listing
//  2. [play] - Interactive traversal (state machine + console loop)
//  3. [storyfile] - TOML story format loading and validation
//  4. [viz] - Graphviz DOT conversion and SVG/PNG rendering
//  5. [session] - Reader position tracking for the HTTP server
//  6. [errors] - Coded errors shared across layers
//  7. [buildinfo] - Build-time version information
//
// # Architecture
//
// The typical data flow:
//
//	story.toml
//	     ↓
//	[storyfile] package (parse + validate)
//	     ↓
//	[story] package (graph structure)
//	     ↓
//	[play] package (traversal)  or  [viz] package (diagrams)
//
// # Quick Start
//
//	st, err := storyfile.Load("story.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := play.Run(st.Tree, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package pkg
