// Package bench implements the benchmark harness: a table of randomly
// labelled rows driven through the fixed operation set (create, append,
// update every tenth, clear, swap, select, remove) with every DOM change
// flowing through the keyed reconciler and per-row reactive subscriptions.
// The Runner times each operation over many iterations and reports
// latencies together with DOM-mutation counts.
package bench
