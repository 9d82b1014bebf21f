// Package dom implements a live, ordered node tree that stands in for the
// browser DOM during benchmarking. Nodes have stable identity and numeric
// IDs; every structural or content mutation is reported to the document's
// PatchSink, which is how the benchmark runner counts DOM operations and
// how the live server streams updates to a thin client.
package dom
