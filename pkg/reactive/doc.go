// Package reactive provides the signal, memo, effect, and scope primitives
// the benchmark harness runs on. Reads inside a tracked computation
// subscribe it to the values it touched; writes invalidate subscribers.
// Invalidated effects do not re-run inline: they queue on their owning
// scope and run when the scope is flushed, so one logical update — however
// many signals it wrote — drives each effect at most once.
//
// The model is single-writer per scope tree. Tracking state is
// per-goroutine, so independent sessions on separate goroutines do not
// interfere, but one scope tree must not be driven from two goroutines at
// once.
package reactive
