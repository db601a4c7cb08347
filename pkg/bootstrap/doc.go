// Package bootstrap drives the layout engine from asynchronous inputs: the
// availability of the rendering library, data loads, and user navigation.
//
// # Overview
//
// A [Controller] owns the view state on a single event-loop goroutine. Every
// input (a finished load, the library becoming ready, a click, a retry
// timer) is posted to that loop and handled in order, so the navigator and
// the solver never run concurrently.
//
// # Relayout
//
// The loop relays out whenever the active view, the hierarchy source or
// library availability changes. When the solver returns a degraded layout,
// another pass is scheduled after [Config.RelayoutDelay] with a perturbed
// seed, up to [Config.MaxRelayoutRetries] times. A new trigger cancels the
// pending retry and resets the counter.
//
// # Library Polling
//
// The rendering library's readiness is not observable as an event, so
// [WaitReady] polls it on a fixed interval with a bounded number of
// attempts.
//
// # Teardown
//
// [Controller.Close] stops the retry timer and the polling loop. Loads are
// tagged with a generation; results of superseded loads, and any result
// arriving after Close, are dropped.
package bootstrap
