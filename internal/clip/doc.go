// Package clip writes normalized image bytes to the system clipboard.
//
// Delivery has two modes. Eager delivery is used when the bytes are already
// in hand (a cache hit): probe focus, settle if it was just regained, write.
// Lazy delivery is used when acquisition has not happened yet: the payload
// is handed over as a pending computation that runs inside the delivery
// call, so the write completes within the same trigger turn that authorized
// it. Neither mode retries; a failure is surfaced upward as a Result with a
// human-readable reason.
//
// FocusPoller covers the paths where an intermediate UI surface (a context
// menu) steals focus and releases it asynchronously: it polls the focus
// probe on a fixed interval up to a bound instead of guessing a fixed delay.
package clip
